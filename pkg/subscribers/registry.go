package subscribers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/instalose/pkg/game/types"
	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/messages"
	"github.com/cbodonnell/instalose/pkg/queue"
	"github.com/cbodonnell/instalose/pkg/repositories/models"
	"github.com/cbodonnell/instalose/pkg/view"
)

const (
	// DefaultTTL is how long a subscriber record lives without a close signal
	DefaultTTL = 24 * time.Hour
	// DefaultQueueSize is the number of updates buffered per subscriber
	DefaultQueueSize = 32
)

// Sender delivers messages to one remote endpoint.
type Sender interface {
	// Send writes msg to the endpoint. It returns an *ErrGone when the
	// endpoint can no longer receive messages.
	Send(ctx context.Context, msg *messages.Message) error
	Close(reason string) error
}

// Store persists subscriber records. repositories.Repository satisfies it.
type Store interface {
	SaveSubscriber(ctx context.Context, subscriber *models.Subscriber) error
	DeleteSubscriber(ctx context.Context, connectionID string) error
	ListSubscribers(ctx context.Context, gameID string) ([]*models.Subscriber, error)
	DeleteExpiredSubscribers(ctx context.Context, now time.Time) ([]string, error)
}

type ErrGone struct {
	ConnectionID string
	Err          error
}

func (e *ErrGone) Error() string {
	return fmt.Sprintf("connection %s is gone: %v", e.ConnectionID, e.Err)
}

func (e *ErrGone) Unwrap() error {
	return e.Err
}

func IsGone(err error) bool {
	var target *ErrGone
	return errors.As(err, &target)
}

// RegisterRequest describes a new push connection.
type RegisterRequest struct {
	ConnectionID string
	GameID       string
	// ViewerPlayerID is empty for hosts and spectators
	ViewerPlayerID string
	IsHost         bool
	Sender         Sender
}

// Update is a new game state to fan out. Private, when set, is attached only
// to the update sent to the subscribers viewing as Private.PlayerID.
type Update struct {
	Game    *types.Game
	Private *messages.ActionResult
}

// BroadcastStats counts what happened to each subscriber of a broadcast.
type BroadcastStats struct {
	Queued  int `json:"queued"`
	Skipped int `json:"skipped"`
	Removed int `json:"removed"`
	// Unattached counts live records with no endpoint in this process
	Unattached int `json:"unattached"`
}

type endpoint struct {
	record *models.Subscriber
	sender Sender
	queue  queue.Queue
	cancel context.CancelFunc
	log    *log.Logger

	// lock guards lastVersion and orders enqueues
	lock        sync.Mutex
	lastVersion int64
}

// Registry tracks the live push connections of this process and fans out
// game updates to them. Records are mirrored in the Store so that expiry
// survives restarts.
type Registry struct {
	store     Store
	ttl       time.Duration
	queueSize int
	now       func() time.Time

	endpointsLock sync.RWMutex
	endpoints     map[string]*endpoint
}

type NewRegistryOptions struct {
	Store Store
	// TTL defaults to DefaultTTL
	TTL time.Duration
	// QueueSize defaults to DefaultQueueSize
	QueueSize int
	// Now defaults to time.Now
	Now func() time.Time
}

func NewRegistry(opts NewRegistryOptions) *Registry {
	r := &Registry{
		store:     opts.Store,
		ttl:       opts.TTL,
		queueSize: opts.QueueSize,
		now:       opts.Now,
		endpoints: make(map[string]*endpoint),
	}
	if r.ttl <= 0 {
		r.ttl = DefaultTTL
	}
	if r.queueSize <= 0 {
		r.queueSize = DefaultQueueSize
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Register records the connection and starts its writer.
func (r *Registry) Register(ctx context.Context, req RegisterRequest) error {
	if req.ConnectionID == "" || req.GameID == "" {
		return fmt.Errorf("connection id and game id are required")
	}
	if req.Sender == nil {
		return fmt.Errorf("sender is required")
	}

	now := r.now()
	record := &models.Subscriber{
		ConnectionID:   req.ConnectionID,
		GameID:         req.GameID,
		ViewerPlayerID: req.ViewerPlayerID,
		IsHost:         req.IsHost,
		ConnectedAt:    now,
		ExpiresAt:      now.Add(r.ttl),
	}

	writerCtx, cancel := context.WithCancel(context.Background())
	ep := &endpoint{
		record: record,
		sender: req.Sender,
		queue:  queue.NewInMemoryQueue(r.queueSize),
		cancel: cancel,
		log: log.Default().With(log.Fields{
			"connectionId": req.ConnectionID,
			"gameId":       req.GameID,
		}),
	}

	// the endpoint must be attached before its record becomes visible to broadcasts
	r.endpointsLock.Lock()
	previous := r.endpoints[req.ConnectionID]
	r.endpoints[req.ConnectionID] = ep
	r.endpointsLock.Unlock()

	if previous != nil {
		previous.cancel()
	}
	go r.write(writerCtx, ep)

	if err := r.store.SaveSubscriber(ctx, record); err != nil {
		r.detachEndpoint(ep, "registration failed")
		return fmt.Errorf("failed to save subscriber: %v", err)
	}

	ep.log.Debug("Registered subscriber")
	return nil
}

// Unregister stops the connection's writer, closes it and deletes its record.
// Unregistering an unknown connection is not an error.
func (r *Registry) Unregister(ctx context.Context, connectionID string) error {
	r.detach(connectionID, "unsubscribed")
	if err := r.store.DeleteSubscriber(ctx, connectionID); err != nil {
		return fmt.Errorf("failed to delete subscriber: %v", err)
	}
	return nil
}

// detach removes the live endpoint, if any, without touching the store.
func (r *Registry) detach(connectionID string, reason string) bool {
	r.endpointsLock.Lock()
	ep, ok := r.endpoints[connectionID]
	delete(r.endpoints, connectionID)
	r.endpointsLock.Unlock()
	if !ok {
		return false
	}
	r.closeEndpoint(ep, reason)
	return true
}

// detachEndpoint is detach for ep only, in case its connection id was
// registered again.
func (r *Registry) detachEndpoint(ep *endpoint, reason string) bool {
	r.endpointsLock.Lock()
	if r.endpoints[ep.record.ConnectionID] != ep {
		r.endpointsLock.Unlock()
		return false
	}
	delete(r.endpoints, ep.record.ConnectionID)
	r.endpointsLock.Unlock()
	r.closeEndpoint(ep, reason)
	return true
}

func (r *Registry) closeEndpoint(ep *endpoint, reason string) {
	ep.cancel()
	dropped := ep.queue.Size()
	ep.queue.ClearQueue()
	if err := ep.sender.Close(reason); err != nil {
		ep.log.Trace("Failed to close connection: %v", err)
	}
	ep.log.Debug("Removed subscriber: %s (%d pending updates dropped)", reason, dropped)
}

func (r *Registry) endpoint(connectionID string) *endpoint {
	r.endpointsLock.RLock()
	defer r.endpointsLock.RUnlock()
	return r.endpoints[connectionID]
}

// Connected reports whether connectionID has a live endpoint in this process.
func (r *Registry) Connected(connectionID string) bool {
	return r.endpoint(connectionID) != nil
}

// Broadcast queues a filtered view of update.Game for every subscriber of the
// game attached to this process. Delivery happens asynchronously, in order per
// subscriber. Expired subscribers and those whose queue is full are removed.
// Records without an endpoint here belong to another process, or to one that
// exited, and are left to expire.
func (r *Registry) Broadcast(ctx context.Context, update Update) (BroadcastStats, error) {
	stats := BroadcastStats{}
	if update.Game == nil {
		return stats, fmt.Errorf("game is nil")
	}

	records, err := r.store.ListSubscribers(ctx, update.Game.ID)
	if err != nil {
		return stats, fmt.Errorf("failed to list subscribers: %v", err)
	}

	now := r.now()
	for _, record := range records {
		if record.Expired(now) {
			r.remove(ctx, record.ConnectionID, "expired")
			stats.Removed++
			continue
		}
		ep := r.endpoint(record.ConnectionID)
		if ep == nil {
			stats.Unattached++
			continue
		}

		queued, err := r.offer(ep, update)
		if err != nil {
			ep.log.Warn("Failed to queue update: %v", err)
			r.remove(ctx, record.ConnectionID, "too slow")
			stats.Removed++
			continue
		}
		if queued {
			stats.Queued++
		} else {
			stats.Skipped++
		}
	}
	return stats, nil
}

// Publish broadcasts and logs the outcome. It never fails.
func (r *Registry) Publish(ctx context.Context, update Update) {
	stats, err := r.Broadcast(ctx, update)
	if err != nil {
		log.Error("Failed to broadcast game %s: %v", update.Game.ID, err)
		return
	}
	log.Trace("Broadcast game %s version %d: queued=%d skipped=%d removed=%d unattached=%d",
		update.Game.ID, update.Game.Version, stats.Queued, stats.Skipped, stats.Removed, stats.Unattached)
}

// SendCurrent queues the current view of game for a single connection.
func (r *Registry) SendCurrent(ctx context.Context, connectionID string, game *types.Game) error {
	ep := r.endpoint(connectionID)
	if ep == nil {
		return &ErrGone{ConnectionID: connectionID, Err: fmt.Errorf("not registered")}
	}
	if _, err := r.offer(ep, Update{Game: game}); err != nil {
		r.remove(ctx, connectionID, "too slow")
		return err
	}
	return nil
}

// offer queues the projected update unless the endpoint already has an equal
// or newer version queued.
func (r *Registry) offer(ep *endpoint, update Update) (bool, error) {
	ep.lock.Lock()
	defer ep.lock.Unlock()

	if update.Game.Version <= ep.lastVersion {
		return false, nil
	}

	viewer := ep.record.ViewerPlayerID
	payload := &messages.ServerGameUpdate{
		State: view.Project(update.Game, viewer),
	}
	if update.Private != nil && viewer != "" && viewer == update.Private.PlayerID {
		payload.ActionResult = update.Private
	}
	msg, err := messages.NewServerGameUpdate(payload)
	if err != nil {
		return false, err
	}

	if err := ep.queue.Enqueue(msg); err != nil {
		return false, err
	}
	ep.lastVersion = update.Game.Version
	return true, nil
}

func (r *Registry) remove(ctx context.Context, connectionID string, reason string) {
	r.detach(connectionID, reason)
	if err := r.store.DeleteSubscriber(ctx, connectionID); err != nil {
		log.Error("Failed to delete subscriber %s: %v", connectionID, err)
	}
}

// write delivers queued messages to the endpoint one at a time.
func (r *Registry) write(ctx context.Context, ep *endpoint) {
	for {
		item, err := ep.queue.Dequeue(ctx)
		if err != nil {
			return
		}
		msg, ok := item.(*messages.Message)
		if !ok {
			ep.log.Error("Unexpected item in subscriber queue: %T", item)
			continue
		}

		if err := ep.sender.Send(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			if IsGone(err) {
				ep.log.Debug("Subscriber is gone: %v", err)
				r.removeEndpoint(ep, "gone")
				return
			}
			ep.log.Error("Failed to send update: %v", err)
		}
	}
}

// removeEndpoint removes ep only if it is still the registered endpoint for
// its connection id.
func (r *Registry) removeEndpoint(ep *endpoint, reason string) {
	if r.endpoint(ep.record.ConnectionID) != ep {
		return
	}
	r.remove(context.Background(), ep.record.ConnectionID, reason)
}

// SweepExpired deletes expired subscriber records and closes their live
// connections. It returns the number of records removed.
func (r *Registry) SweepExpired(ctx context.Context) (int, error) {
	expired, err := r.store.DeleteExpiredSubscribers(ctx, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired subscribers: %v", err)
	}
	for _, connectionID := range expired {
		r.detach(connectionID, "expired")
	}
	return len(expired), nil
}

// Close closes every live connection. Records are left to expire.
func (r *Registry) Close() {
	r.endpointsLock.Lock()
	endpoints := r.endpoints
	r.endpoints = make(map[string]*endpoint)
	r.endpointsLock.Unlock()

	for id, ep := range endpoints {
		ep.cancel()
		if err := ep.sender.Close("server shutting down"); err != nil {
			log.Trace("Failed to close connection %s: %v", id, err)
		}
	}
}
