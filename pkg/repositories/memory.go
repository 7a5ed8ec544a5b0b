package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	gametypes "github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/repositories/models"
)

var _ Repository = &InMemoryRepository{}

type storedGame struct {
	version int64
	data    []byte
}

// InMemoryRepository keeps encoded games in memory, so every load returns an
// independent copy.
type InMemoryRepository struct {
	lock        sync.RWMutex
	games       map[string]storedGame
	subscribers map[string]models.Subscriber
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		games:       make(map[string]storedGame),
		subscribers: make(map[string]models.Subscriber),
	}
}

func (r *InMemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) CreateGame(ctx context.Context, game *gametypes.Game) error {
	if game == nil {
		return fmt.Errorf("game is nil")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.games[game.ID]; ok {
		return &ErrAlreadyExists{GameID: game.ID}
	}

	game.Version = 1
	data, err := EncodeGame(game)
	if err != nil {
		game.Version = 0
		return err
	}
	r.games[game.ID] = storedGame{version: 1, data: data}
	return nil
}

func (r *InMemoryRepository) LoadGame(ctx context.Context, gameID string) (*gametypes.Game, error) {
	r.lock.RLock()
	stored, ok := r.games[gameID]
	r.lock.RUnlock()
	if !ok {
		return nil, &ErrNotFound{}
	}

	game, err := DecodeGame(stored.data)
	if err != nil {
		return nil, err
	}
	game.Version = stored.version
	return game, nil
}

func (r *InMemoryRepository) SaveGame(ctx context.Context, game *gametypes.Game) error {
	if game == nil {
		return fmt.Errorf("game is nil")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	stored, ok := r.games[game.ID]
	if !ok {
		return &ErrNotFound{}
	}
	if stored.version != game.Version {
		return &ErrConflict{GameID: game.ID, ExpectedVersion: game.Version}
	}

	game.Version++
	data, err := EncodeGame(game)
	if err != nil {
		game.Version--
		return err
	}
	r.games[game.ID] = storedGame{version: game.Version, data: data}
	return nil
}

func (r *InMemoryRepository) SaveSubscriber(ctx context.Context, subscriber *models.Subscriber) error {
	if subscriber == nil {
		return fmt.Errorf("subscriber is nil")
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	r.subscribers[subscriber.ConnectionID] = *subscriber
	return nil
}

func (r *InMemoryRepository) DeleteSubscriber(ctx context.Context, connectionID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.subscribers, connectionID)
	return nil
}

func (r *InMemoryRepository) ListSubscribers(ctx context.Context, gameID string) ([]*models.Subscriber, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	subscribers := make([]*models.Subscriber, 0)
	for _, s := range r.subscribers {
		if s.GameID == gameID {
			copy := s
			subscribers = append(subscribers, &copy)
		}
	}
	sort.Slice(subscribers, func(i, j int) bool {
		return subscribers[i].ConnectionID < subscribers[j].ConnectionID
	})
	return subscribers, nil
}

func (r *InMemoryRepository) DeleteExpiredSubscribers(ctx context.Context, now time.Time) ([]string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	expired := make([]string, 0)
	for id, s := range r.subscribers {
		if s.Expired(now) {
			expired = append(expired, id)
			delete(r.subscribers, id)
		}
	}
	sort.Strings(expired)
	return expired, nil
}
