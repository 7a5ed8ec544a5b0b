package subscribers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mocks "github.com/cbodonnell/instalose/mocks/github.com/cbodonnell/instalose/pkg/subscribers"
	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/messages"
	"github.com/cbodonnell/instalose/pkg/repositories"
	"github.com/cbodonnell/instalose/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond

type recordingSender struct {
	lock    sync.Mutex
	updates []*messages.ServerGameUpdate
	closed  string
	// release, when set, blocks Send until it is closed
	release chan struct{}
}

func (s *recordingSender) Send(ctx context.Context, msg *messages.Message) error {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	update := &messages.ServerGameUpdate{}
	if err := json.Unmarshal(msg.Payload, update); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.updates = append(s.updates, update)
	return nil
}

func (s *recordingSender) Close(reason string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closed = reason
	return nil
}

func (s *recordingSender) received() []*messages.ServerGameUpdate {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]*messages.ServerGameUpdate{}, s.updates...)
}

func (s *recordingSender) closeReason() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.closed
}

func testGame(version int64) *types.Game {
	g := types.NewGame("ROOM42", "host", 100, 1000)
	alice := types.NewPlayer("p1", "Alice", "🐶", "bg-pink-500")
	alice.Hand = []cards.Card{{ID: "a1", Kind: cards.KindSave}, {ID: "a2", Kind: cards.KindSkip}}
	bob := types.NewPlayer("p2", "Bob", "🐱", "bg-blue-500")
	bob.Hand = []cards.Card{{ID: "b1", Kind: cards.KindSave}}
	g.Players = []*types.Player{alice, bob}
	g.Status = types.StatusInProgress
	g.TurnOrder = []string{"p1", "p2"}
	g.CurrentTurnPlayerID = "p1"
	g.Version = version
	return g
}

func newTestRegistry(store Store) *Registry {
	return NewRegistry(NewRegistryOptions{Store: store})
}

func register(t *testing.T, r *Registry, connectionID, viewer string, isHost bool, sender Sender) {
	t.Helper()
	require.NoError(t, r.Register(context.Background(), RegisterRequest{
		ConnectionID:   connectionID,
		GameID:         "ROOM42",
		ViewerPlayerID: viewer,
		IsHost:         isHost,
		Sender:         sender,
	}))
}

func TestRegistry_BroadcastProjectsPerViewer(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(repositories.NewInMemoryRepository())
	defer r.Close()

	alice, bob, host := &recordingSender{}, &recordingSender{}, &recordingSender{}
	register(t, r, "c1", "p1", false, alice)
	register(t, r, "c2", "p2", false, bob)
	register(t, r, "c3", "", true, host)

	stats, err := r.Broadcast(ctx, Update{
		Game:    testGame(3),
		Private: &messages.ActionResult{PlayerID: "p1", PeekedCards: []cards.Card{{ID: "d1", Kind: cards.KindElimination}}},
	})
	require.NoError(t, err)
	assert.Equal(t, BroadcastStats{Queued: 3}, stats)

	for _, s := range []*recordingSender{alice, bob, host} {
		assert.Eventually(t, func() bool { return len(s.received()) == 1 }, waitFor, tick)
	}

	aliceView := alice.received()[0]
	assert.Len(t, aliceView.State.MyHand, 2)
	require.NotNil(t, aliceView.ActionResult)
	assert.Len(t, aliceView.ActionResult.PeekedCards, 1)

	bobView := bob.received()[0]
	assert.Equal(t, []cards.Card{{ID: "b1", Kind: cards.KindSave}}, bobView.State.MyHand)
	assert.Nil(t, bobView.ActionResult)
	assert.Equal(t, 2, bobView.State.Players[0].CardCount)

	hostView := host.received()[0]
	assert.Empty(t, hostView.State.MyHand)
	assert.Nil(t, hostView.ActionResult)
}

func TestRegistry_PerSubscriberOrdering(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(repositories.NewInMemoryRepository())
	defer r.Close()

	sender := &recordingSender{}
	register(t, r, "c1", "p1", false, sender)

	stats, err := r.Broadcast(ctx, Update{Game: testGame(2)})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Queued)

	stats, err = r.Broadcast(ctx, Update{Game: testGame(1)})
	require.NoError(t, err)
	assert.Equal(t, BroadcastStats{Skipped: 1}, stats)

	stats, err = r.Broadcast(ctx, Update{Game: testGame(2)})
	require.NoError(t, err)
	assert.Equal(t, BroadcastStats{Skipped: 1}, stats)

	for v := int64(3); v <= 20; v++ {
		_, err := r.Broadcast(ctx, Update{Game: testGame(v)})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool { return len(sender.received()) == 19 }, waitFor, tick)
	var last int64
	for _, u := range sender.received() {
		assert.Greater(t, u.State.Version, last)
		last = u.State.Version
	}
}

func TestRegistry_GoneSenderIsUnregistered(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewInMemoryRepository()
	r := newTestRegistry(store)
	defer r.Close()

	gone := mocks.NewSender(t)
	gone.EXPECT().Send(mock.Anything, mock.Anything).Return(&ErrGone{ConnectionID: "c1"}).Once()
	gone.EXPECT().Close("gone").Return(nil).Once()
	healthy := &recordingSender{}

	register(t, r, "c1", "p1", false, gone)
	register(t, r, "c2", "p2", false, healthy)

	stats, err := r.Broadcast(ctx, Update{Game: testGame(5)})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Queued)

	assert.Eventually(t, func() bool { return !r.Connected("c1") }, waitFor, tick)
	assert.Eventually(t, func() bool { return len(healthy.received()) == 1 }, waitFor, tick)

	assert.Eventually(t, func() bool {
		records, err := store.ListSubscribers(ctx, "ROOM42")
		return err == nil && len(records) == 1 && records[0].ConnectionID == "c2"
	}, waitFor, tick)
}

func TestRegistry_RecordsWithoutEndpoint(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name        string
		expiresAt   time.Time
		wantStats   BroadcastStats
		wantRecords int
	}{
		{name: "owned by another process", expiresAt: now.Add(time.Hour), wantStats: BroadcastStats{Unattached: 1}, wantRecords: 1},
		{name: "expired", expiresAt: now.Add(-time.Second), wantStats: BroadcastStats{Removed: 1}, wantRecords: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repositories.NewInMemoryRepository()
			r := newTestRegistry(store)
			defer r.Close()

			require.NoError(t, store.SaveSubscriber(ctx, &models.Subscriber{
				ConnectionID: "elsewhere",
				GameID:       "ROOM42",
				ConnectedAt:  now.Add(-time.Minute),
				ExpiresAt:    tt.expiresAt,
			}))

			stats, err := r.Broadcast(ctx, Update{Game: testGame(1)})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStats, stats)

			records, err := store.ListSubscribers(ctx, "ROOM42")
			require.NoError(t, err)
			assert.Len(t, records, tt.wantRecords)
		})
	}
}

// interleavingStore runs duringSave after a subscriber record is written and
// before SaveSubscriber returns.
type interleavingStore struct {
	*repositories.InMemoryRepository
	duringSave func()
	saveErr    error
}

func (s *interleavingStore) SaveSubscriber(ctx context.Context, subscriber *models.Subscriber) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if err := s.InMemoryRepository.SaveSubscriber(ctx, subscriber); err != nil {
		return err
	}
	if s.duringSave != nil {
		s.duringSave()
	}
	return nil
}

func TestRegistry_BroadcastDuringRegister(t *testing.T) {
	ctx := context.Background()
	store := &interleavingStore{InMemoryRepository: repositories.NewInMemoryRepository()}
	r := newTestRegistry(store)
	defer r.Close()

	var concurrent BroadcastStats
	store.duringSave = func() {
		stats, err := r.Broadcast(ctx, Update{Game: testGame(2)})
		require.NoError(t, err)
		concurrent = stats
	}

	sender := &recordingSender{}
	register(t, r, "c1", "p1", false, sender)
	assert.Equal(t, BroadcastStats{Queued: 1}, concurrent)

	records, err := store.ListSubscribers(ctx, "ROOM42")
	require.NoError(t, err)
	require.Len(t, records, 1)

	store.duringSave = nil
	stats, err := r.Broadcast(ctx, Update{Game: testGame(3)})
	require.NoError(t, err)
	assert.Equal(t, BroadcastStats{Queued: 1}, stats)

	assert.Eventually(t, func() bool { return len(sender.received()) == 2 }, waitFor, tick)
	received := sender.received()
	assert.Equal(t, int64(2), received[0].State.Version)
	assert.Equal(t, int64(3), received[1].State.Version)
}

func TestRegistry_RegisterSaveFailure(t *testing.T) {
	store := &interleavingStore{
		InMemoryRepository: repositories.NewInMemoryRepository(),
		saveErr:            errors.New("database is locked"),
	}
	r := newTestRegistry(store)
	defer r.Close()

	sender := &recordingSender{}
	err := r.Register(context.Background(), RegisterRequest{ConnectionID: "c1", GameID: "ROOM42", Sender: sender})
	assert.Error(t, err)
	assert.False(t, r.Connected("c1"))
	assert.Equal(t, "registration failed", sender.closeReason())
}

func TestRegistry_LogsCarryConnectionFields(t *testing.T) {
	buf := &syncBuffer{}
	previous := log.Default()
	log.SetDefaultLogger(log.New(buf, "", 0, log.LogLevelDebug))
	defer log.SetDefaultLogger(previous)

	r := newTestRegistry(repositories.NewInMemoryRepository())
	defer r.Close()
	register(t, r, "c1", "p1", false, &recordingSender{})
	require.NoError(t, r.Unregister(context.Background(), "c1"))

	found := false
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if strings.HasPrefix(entry["msg"].(string), "Removed subscriber") {
			found = true
			assert.Equal(t, "c1", entry["connectionId"])
			assert.Equal(t, "ROOM42", entry["gameId"])
		}
	}
	assert.True(t, found)
}

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func TestRegistry_SlowSubscriberIsRemoved(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewRegistryOptions{
		Store:     repositories.NewInMemoryRepository(),
		QueueSize: 1,
	})
	defer r.Close()

	slow := &recordingSender{release: make(chan struct{})}
	register(t, r, "c1", "p1", false, slow)

	removed := 0
	for v := int64(1); v <= 4; v++ {
		stats, err := r.Broadcast(ctx, Update{Game: testGame(v)})
		require.NoError(t, err)
		removed += stats.Removed
	}
	assert.Equal(t, 1, removed)
	assert.False(t, r.Connected("c1"))
	assert.Equal(t, "too slow", slow.closeReason())
}

func TestRegistry_UnregisterAndSendCurrent(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewInMemoryRepository()
	r := newTestRegistry(store)
	defer r.Close()

	sender := &recordingSender{}
	register(t, r, "c1", "p2", false, sender)

	require.NoError(t, r.SendCurrent(ctx, "c1", testGame(7)))
	assert.Eventually(t, func() bool { return len(sender.received()) == 1 }, waitFor, tick)
	assert.Equal(t, int64(7), sender.received()[0].State.Version)

	require.NoError(t, r.Unregister(ctx, "c1"))
	require.NoError(t, r.Unregister(ctx, "c1"))
	assert.False(t, r.Connected("c1"))
	assert.Equal(t, "unsubscribed", sender.closeReason())

	err := r.SendCurrent(ctx, "c1", testGame(8))
	assert.True(t, IsGone(err))

	records, err := store.ListSubscribers(ctx, "ROOM42")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRegistry_SweepExpired(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	clock := func() time.Time { return now }

	r := NewRegistry(NewRegistryOptions{
		Store: repositories.NewInMemoryRepository(),
		TTL:   time.Minute,
		Now:   func() time.Time { return clock() },
	})
	defer r.Close()

	sender := &recordingSender{}
	register(t, r, "c1", "p1", false, sender)

	swept, err := r.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
	assert.True(t, r.Connected("c1"))

	clock = func() time.Time { return now.Add(time.Minute) }
	swept, err = r.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.False(t, r.Connected("c1"))
	assert.Equal(t, "expired", sender.closeReason())
}

func TestRegistry_RegisterValidation(t *testing.T) {
	r := newTestRegistry(repositories.NewInMemoryRepository())
	defer r.Close()

	assert.Error(t, r.Register(context.Background(), RegisterRequest{GameID: "ROOM42", Sender: &recordingSender{}}))
	assert.Error(t, r.Register(context.Background(), RegisterRequest{ConnectionID: "c1", GameID: "ROOM42"}))
}
