package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	gametypes "github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repository = &PostgresRepository{}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to the database and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	pool, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, migrations, func(ctx context.Context, migration string) error {
		_, err := pool.Exec(ctx, migration)
		return err
	}); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return pool, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) CreateGame(ctx context.Context, game *gametypes.Game) error {
	game.Version = 1
	data, err := EncodeGame(game)
	if err != nil {
		game.Version = 0
		return err
	}

	q := `
	INSERT INTO games (game_id, status, version, updated_at, state) VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (game_id) DO NOTHING;
	`
	tag, err := r.pool.Exec(ctx, q, game.ID, string(game.Status), game.Version, game.UpdatedAt, data)
	if err != nil {
		game.Version = 0
		return fmt.Errorf("failed to insert game: %v", err)
	}
	if tag.RowsAffected() == 0 {
		game.Version = 0
		return &ErrAlreadyExists{GameID: game.ID}
	}
	return nil
}

func (r *PostgresRepository) LoadGame(ctx context.Context, gameID string) (*gametypes.Game, error) {
	q := `
	SELECT version, state FROM games WHERE game_id = $1;
	`
	var version int64
	var data []byte
	if err := r.pool.QueryRow(ctx, q, gameID).Scan(&version, &data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan game: %v", err)
	}

	game, err := DecodeGame(data)
	if err != nil {
		return nil, err
	}
	game.Version = version
	return game, nil
}

func (r *PostgresRepository) SaveGame(ctx context.Context, game *gametypes.Game) error {
	expected := game.Version
	game.Version = expected + 1
	data, err := EncodeGame(game)
	if err != nil {
		game.Version = expected
		return err
	}

	q := `
	UPDATE games SET status = $1, version = $2, updated_at = $3, state = $4
	WHERE game_id = $5 AND version = $6;
	`
	tag, err := r.pool.Exec(ctx, q, string(game.Status), game.Version, game.UpdatedAt, data, game.ID, expected)
	if err != nil {
		game.Version = expected
		return fmt.Errorf("failed to update game: %v", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	game.Version = expected
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM games WHERE game_id = $1);`, game.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check game: %v", err)
	}
	if !exists {
		return &ErrNotFound{}
	}
	return &ErrConflict{GameID: game.ID, ExpectedVersion: expected}
}

func (r *PostgresRepository) SaveSubscriber(ctx context.Context, subscriber *models.Subscriber) error {
	q := `
	INSERT INTO subscribers (connection_id, game_id, viewer_player_id, is_host, connected_at, expires_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (connection_id) DO UPDATE SET game_id = $2, viewer_player_id = $3, is_host = $4, connected_at = $5, expires_at = $6;
	`
	_, err := r.pool.Exec(ctx, q,
		subscriber.ConnectionID,
		subscriber.GameID,
		subscriber.ViewerPlayerID,
		subscriber.IsHost,
		subscriber.ConnectedAt.UnixMilli(),
		subscriber.ExpiresAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscriber: %v", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteSubscriber(ctx context.Context, connectionID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM subscribers WHERE connection_id = $1;`, connectionID); err != nil {
		return fmt.Errorf("failed to delete subscriber: %v", err)
	}
	return nil
}

func (r *PostgresRepository) ListSubscribers(ctx context.Context, gameID string) ([]*models.Subscriber, error) {
	q := `
	SELECT connection_id, game_id, viewer_player_id, is_host, connected_at, expires_at
	FROM subscribers WHERE game_id = $1 ORDER BY connection_id;
	`
	rows, err := r.pool.Query(ctx, q, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %v", err)
	}
	defer rows.Close()

	subscribers := make([]*models.Subscriber, 0)
	for rows.Next() {
		var s models.Subscriber
		var connectedAt, expiresAt int64
		if err := rows.Scan(&s.ConnectionID, &s.GameID, &s.ViewerPlayerID, &s.IsHost, &connectedAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %v", err)
		}
		s.ConnectedAt = time.UnixMilli(connectedAt)
		s.ExpiresAt = time.UnixMilli(expiresAt)
		subscribers = append(subscribers, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %v", err)
	}
	return subscribers, nil
}

func (r *PostgresRepository) DeleteExpiredSubscribers(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `DELETE FROM subscribers WHERE expires_at <= $1 RETURNING connection_id;`, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired subscribers: %v", err)
	}
	expired, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect expired subscribers: %v", err)
	}
	sort.Strings(expired)
	return expired, nil
}
