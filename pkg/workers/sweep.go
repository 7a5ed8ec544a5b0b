package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/instalose/pkg/log"
)

// Sweeper removes expired subscribers. *subscribers.Registry implements it.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

type SubscriberSweepWorker struct {
	sweeper  Sweeper
	interval time.Duration
}

type NewSubscriberSweepWorkerOptions struct {
	Sweeper  Sweeper
	Interval time.Duration
}

// NewSubscriberSweepWorker creates a new SubscriberSweepWorker.
// The worker periodically removes subscribers whose time-to-live has passed,
// which catches endpoints that vanished without a close signal.
func NewSubscriberSweepWorker(opts NewSubscriberSweepWorkerOptions) *SubscriberSweepWorker {
	return &SubscriberSweepWorker{
		sweeper:  opts.Sweeper,
		interval: opts.Interval,
	}
}

func (w *SubscriberSweepWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SubscriberSweepWorker) sweep(ctx context.Context) {
	removed, err := w.sweeper.SweepExpired(ctx)
	if err != nil {
		log.Error("Failed to sweep expired subscribers: %v", err)
		return
	}
	if removed > 0 {
		log.Info("Removed %d expired subscribers", removed)
	}
}
