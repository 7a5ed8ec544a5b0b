package repositories

import (
	"context"
	"time"

	gametypes "github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/repositories/models"
)

// Repository persists games and subscriber records.
// Implementations must be safe for concurrent use.
type Repository interface {
	Close(ctx context.Context) error

	// CreateGame stores a new game at version 1.
	// Returns *ErrAlreadyExists if the id is taken.
	CreateGame(ctx context.Context, game *gametypes.Game) error
	// LoadGame returns the stored game. Returns *ErrNotFound if there is none.
	LoadGame(ctx context.Context, gameID string) (*gametypes.Game, error)
	// SaveGame stores game if the stored version still equals game.Version,
	// and increments game.Version on success. Returns *ErrConflict if another
	// writer saved in between.
	SaveGame(ctx context.Context, game *gametypes.Game) error

	SaveSubscriber(ctx context.Context, subscriber *models.Subscriber) error
	DeleteSubscriber(ctx context.Context, connectionID string) error
	ListSubscribers(ctx context.Context, gameID string) ([]*models.Subscriber, error)
	// DeleteExpiredSubscribers removes subscribers that expired at or before now
	// and returns their connection ids.
	DeleteExpiredSubscribers(ctx context.Context, now time.Time) ([]string, error)
}
