package workers

import (
	"context"

	"github.com/cbodonnell/instalose/pkg/game"
	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/network"
)

// Subscriptions registers push connections. *game.GameManager implements it.
type Subscriptions interface {
	Subscribe(ctx context.Context, req game.SubscribeRequest) error
	Unsubscribe(ctx context.Context, connectionID string) error
}

type ConnectionEventWorker struct {
	connectionEventChan <-chan network.ConnectionEvent
	subscriptions       Subscriptions
}

type NewConnectionEventWorkerOptions struct {
	ConnectionEventChan <-chan network.ConnectionEvent
	Subscriptions       Subscriptions
}

// NewConnectionEventWorker creates a new ConnectionEventWorker.
// The worker turns connects into subscriptions and disconnects into
// unsubscriptions, in the order the connections reported them.
func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		connectionEventChan: opts.ConnectionEventChan,
		subscriptions:       opts.Subscriptions,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.connectionEventChan:
			switch event.Type {
			case network.ConnectionEventTypeConnect:
				w.handleConnect(ctx, event)
			case network.ConnectionEventTypeDisconnect:
				w.handleDisconnect(ctx, event)
			default:
				log.Error("Unknown connection event type: %v", event.Type)
			}
		}
	}
}

func (w *ConnectionEventWorker) handleConnect(ctx context.Context, event network.ConnectionEvent) {
	data, ok := event.Data.(network.ConnectData)
	if !ok {
		log.Error("Failed to cast connect data for connection %s", event.ConnectionID)
		return
	}

	err := w.subscriptions.Subscribe(ctx, game.SubscribeRequest{
		ConnectionID:   event.ConnectionID,
		GameID:         data.GameID,
		ViewerPlayerID: data.ViewerPlayerID,
		IsHost:         data.IsHost,
		Sender:         data.Connection,
	})
	if err != nil {
		if game.CategoryOf(err) == "" {
			log.Error("Failed to subscribe connection %s to game %s: %v", event.ConnectionID, data.GameID, err)
		} else {
			log.Debug("Rejected subscription of %s to game %s: %v", event.ConnectionID, data.GameID, err)
		}
		data.Connection.Close(err.Error())
		return
	}
	log.Info("Connection %s subscribed to game %s", event.ConnectionID, data.GameID)
}

func (w *ConnectionEventWorker) handleDisconnect(ctx context.Context, event network.ConnectionEvent) {
	if err := w.subscriptions.Unsubscribe(ctx, event.ConnectionID); err != nil {
		log.Error("Failed to unsubscribe connection %s: %v", event.ConnectionID, err)
		return
	}
	log.Debug("Connection %s unsubscribed", event.ConnectionID)
}
