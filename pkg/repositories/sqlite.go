package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	gametypes "github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

var _ Repository = &SQLiteRepository{}

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at path and applies every migration
// file in the migrations directory in lexical order.
func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, migrations, func(ctx context.Context, migration string) error {
		_, err := db.ExecContext(ctx, migration)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func runMigrations(ctx context.Context, migrations string, exec func(ctx context.Context, migration string) error) error {
	dir, err := os.ReadDir(migrations)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %v", err)
	}
	sort.Slice(dir, func(i, j int) bool {
		return dir[i].Name() < dir[j].Name()
	})

	for _, entry := range dir {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if err := exec(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateGame(ctx context.Context, game *gametypes.Game) error {
	game.Version = 1
	data, err := EncodeGame(game)
	if err != nil {
		game.Version = 0
		return err
	}

	q := `
	INSERT INTO games (game_id, status, version, updated_at, state)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (game_id) DO NOTHING;
	`
	res, err := r.db.ExecContext(ctx, q, game.ID, string(game.Status), game.Version, game.UpdatedAt, data)
	if err != nil {
		game.Version = 0
		return fmt.Errorf("failed to insert game: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		game.Version = 0
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if n == 0 {
		game.Version = 0
		return &ErrAlreadyExists{GameID: game.ID}
	}
	return nil
}

func (r *SQLiteRepository) LoadGame(ctx context.Context, gameID string) (*gametypes.Game, error) {
	q := `
	SELECT version, state FROM games WHERE game_id = ?;
	`
	var version int64
	var data []byte
	if err := r.db.QueryRowContext(ctx, q, gameID).Scan(&version, &data); err != nil {
		if err == sql.ErrNoRows {
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

func (r *SQLiteRepository) SaveGame(ctx context.Context, game *gametypes.Game) error {
	expected := game.Version
	game.Version = expected + 1
	data, err := EncodeGame(game)
	if err != nil {
		game.Version = expected
		return err
	}

	q := `
	UPDATE games SET status = ?, version = ?, updated_at = ?, state = ?
	WHERE game_id = ? AND version = ?;
	`
	res, err := r.db.ExecContext(ctx, q, string(game.Status), game.Version, game.UpdatedAt, data, game.ID, expected)
	if err != nil {
		game.Version = expected
		return fmt.Errorf("failed to update game: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		game.Version = expected
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if n == 1 {
		return nil
	}

	game.Version = expected
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE game_id = ?;`, game.ID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return &ErrNotFound{}
		}
		return fmt.Errorf("failed to check game: %v", err)
	}
	return &ErrConflict{GameID: game.ID, ExpectedVersion: expected}
}

func (r *SQLiteRepository) SaveSubscriber(ctx context.Context, subscriber *models.Subscriber) error {
	q := `
	INSERT OR REPLACE INTO subscribers (connection_id, game_id, viewer_player_id, is_host, connected_at, expires_at)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q,
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

func (r *SQLiteRepository) DeleteSubscriber(ctx context.Context, connectionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscribers WHERE connection_id = ?;`, connectionID); err != nil {
		return fmt.Errorf("failed to delete subscriber: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSubscribers(ctx context.Context, gameID string) ([]*models.Subscriber, error) {
	q := `
	SELECT connection_id, game_id, viewer_player_id, is_host, connected_at, expires_at
	FROM subscribers WHERE game_id = ? ORDER BY connection_id;
	`
	rows, err := r.db.QueryContext(ctx, q, gameID)
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

func (r *SQLiteRepository) DeleteExpiredSubscribers(ctx context.Context, now time.Time) ([]string, error) {
	q := `
	DELETE FROM subscribers WHERE expires_at <= ? RETURNING connection_id;
	`
	rows, err := r.db.QueryContext(ctx, q, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired subscribers: %v", err)
	}
	defer rows.Close()

	expired := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan connection id: %v", err)
		}
		expired = append(expired, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expired subscribers: %v", err)
	}
	sort.Strings(expired)
	return expired, nil
}
