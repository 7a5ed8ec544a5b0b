package repositories

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cbodonnell/instalose/pkg/cards"
	gametypes "github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repositoriesUnderTest(t *testing.T) map[string]Repository {
	t.Helper()
	ctx := context.Background()

	sqlite, err := NewSQLiteRepository(ctx, filepath.Join(t.TempDir(), "instalose.db"), "../../migrations/sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close(ctx) })

	return map[string]Repository{
		"memory": NewInMemoryRepository(),
		"sqlite": sqlite,
	}
}

func testGame(id string) *gametypes.Game {
	g := gametypes.NewGame(id, "host", 100, 1000)
	g.Players = append(g.Players, gametypes.NewPlayer("p1", "Alice", "🐶", "bg-pink-500"))
	g.Players[0].Hand = []cards.Card{{ID: "c1", Kind: cards.KindSave}, {ID: "c2", Kind: cards.KindPairA}}
	g.Deck = cards.Deck{{ID: "c3", Kind: cards.KindElimination}}
	return g
}

func TestRepository_GameLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			g := testGame("ABC123")
			require.NoError(t, repo.CreateGame(ctx, g))
			assert.Equal(t, int64(1), g.Version)

			err := repo.CreateGame(ctx, testGame("ABC123"))
			assert.True(t, IsAlreadyExists(err), "got %v", err)

			loaded, err := repo.LoadGame(ctx, "ABC123")
			require.NoError(t, err)
			assert.Equal(t, g, loaded)

			loaded.Players[0].Name = "Bob"
			require.NoError(t, repo.SaveGame(ctx, loaded))
			assert.Equal(t, int64(2), loaded.Version)

			reloaded, err := repo.LoadGame(ctx, "ABC123")
			require.NoError(t, err)
			assert.Equal(t, "Bob", reloaded.Players[0].Name)
			assert.Equal(t, int64(2), reloaded.Version)

			_, err = repo.LoadGame(ctx, "NOPE00")
			assert.True(t, IsNotFound(err), "got %v", err)

			err = repo.SaveGame(ctx, testGame("NOPE00"))
			assert.True(t, IsNotFound(err), "got %v", err)
		})
	}
}

func TestRepository_SaveGameConflict(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateGame(ctx, testGame("CAS000")))

			first, err := repo.LoadGame(ctx, "CAS000")
			require.NoError(t, err)
			second, err := repo.LoadGame(ctx, "CAS000")
			require.NoError(t, err)

			require.NoError(t, repo.SaveGame(ctx, first))

			second.Players[0].Name = "stale"
			err = repo.SaveGame(ctx, second)
			assert.True(t, IsConflict(err), "got %v", err)
			assert.Equal(t, int64(1), second.Version)

			stored, err := repo.LoadGame(ctx, "CAS000")
			require.NoError(t, err)
			assert.Equal(t, "Alice", stored.Players[0].Name)
			assert.Equal(t, int64(2), stored.Version)
		})
	}
}

func TestRepository_ConcurrentSavesOneWins(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.CreateGame(ctx, testGame("RACE00")))

			const writers = 8
			var wg sync.WaitGroup
			results := make(chan error, writers)
			for i := 0; i < writers; i++ {
				g, err := repo.LoadGame(ctx, "RACE00")
				require.NoError(t, err)
				wg.Add(1)
				go func(g *gametypes.Game) {
					defer wg.Done()
					results <- repo.SaveGame(ctx, g)
				}(g)
			}
			wg.Wait()
			close(results)

			succeeded := 0
			for err := range results {
				if err == nil {
					succeeded++
					continue
				}
				assert.True(t, IsConflict(err), "got %v", err)
			}
			assert.Equal(t, 1, succeeded)
		})
	}
}

func TestRepository_Subscribers(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	for name, repo := range repositoriesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			subs := []*models.Subscriber{
				{ConnectionID: "b", GameID: "G1", ViewerPlayerID: "p1", ConnectedAt: now, ExpiresAt: now.Add(time.Hour)},
				{ConnectionID: "a", GameID: "G1", IsHost: true, ConnectedAt: now, ExpiresAt: now.Add(time.Minute)},
				{ConnectionID: "c", GameID: "G2", ViewerPlayerID: "p2", ConnectedAt: now, ExpiresAt: now.Add(time.Minute)},
			}
			for _, s := range subs {
				require.NoError(t, repo.SaveSubscriber(ctx, s))
			}

			listed, err := repo.ListSubscribers(ctx, "G1")
			require.NoError(t, err)
			require.Len(t, listed, 2)
			assert.Equal(t, "a", listed[0].ConnectionID)
			assert.True(t, listed[0].IsHost)
			assert.Equal(t, "b", listed[1].ConnectionID)
			assert.Equal(t, "p1", listed[1].ViewerPlayerID)
			assert.True(t, listed[1].ExpiresAt.Equal(now.Add(time.Hour)))

			expired, err := repo.DeleteExpiredSubscribers(ctx, now.Add(time.Minute))
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "c"}, expired)

			require.NoError(t, repo.DeleteSubscriber(ctx, "b"))
			require.NoError(t, repo.DeleteSubscriber(ctx, "missing"))

			listed, err = repo.ListSubscribers(ctx, "G1")
			require.NoError(t, err)
			assert.Empty(t, listed)
		})
	}
}

func TestNewRepositoryFromURL(t *testing.T) {
	ctx := context.Background()

	repo, err := NewRepositoryFromURL(ctx, "memory://", "../../migrations")
	require.NoError(t, err)
	assert.IsType(t, &InMemoryRepository{}, repo)

	repo, err = NewRepositoryFromURL(ctx, "sqlite://"+filepath.Join(t.TempDir(), "factory.db"), "../../migrations")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepository{}, repo)
	require.NoError(t, repo.Close(ctx))

	_, err = NewRepositoryFromURL(ctx, "mysql://localhost/db", "../../migrations")
	assert.Error(t, err)
}

func TestCodec(t *testing.T) {
	g := testGame("ZSTD00")
	g.Version = 7

	data, err := EncodeGame(g)
	require.NoError(t, err)

	decoded, err := DecodeGame(data)
	require.NoError(t, err)
	assert.Equal(t, g, decoded)

	_, err = DecodeGame([]byte("not zstd"))
	assert.Error(t, err)
}
