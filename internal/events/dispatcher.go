package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/contactsmgr/contacts/internal/metrics"
)

// PublishTimeout bounds a single background publish.
const PublishTimeout = 2 * time.Second

// Dispatcher publishes events in the background so request paths never
// wait on the broker. Failures are logged and counted as dropped.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   metrics.Recorder
	wg        sync.WaitGroup
}

// NewDispatcher wraps publisher. A nil publisher discards events.
func NewDispatcher(publisher Publisher, logger *slog.Logger, recorder metrics.Recorder) *Dispatcher {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger.With("component", "events.dispatcher"),
		metrics:   recorder,
	}
}

// Dispatch publishes event without blocking the caller (fire-and-forget).
func (d *Dispatcher) Dispatch(event Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		if err := d.publisher.Publish(ctx, event); err != nil {
			d.logger.Warn("failed to publish event",
				"type", event.Type,
				"entity_id", event.EntityID,
				"error", err,
			)
			d.metrics.IncEventPublished("dropped")
			return
		}

		d.logger.Debug("event published", "type", event.Type, "event_id", event.ID)
		d.metrics.IncEventPublished("success")
	}()
}

// Wait blocks until in-flight publishes finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
