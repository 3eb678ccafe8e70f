package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"go.uber.org/zap"

	"github.com/nearcircle/backend/internal/repositories"
	"github.com/nearcircle/backend/pkg/logging"
)

// Handler applies one collection's change events to the relational store
type Handler interface {
	// EntityType names the mirrored entity for failure-registry entries
	EntityType() string
	Handle(ctx context.Context, ev ChangeEvent) error
}

// EventDeduper screens redelivered events. Seen is checked before the handler
// runs; Mark is called only after the handler returned, so a crash in between
// leaves the event replayable on redelivery. *Deduper satisfies it.
type EventDeduper interface {
	Seen(ctx context.Context, eventID string) bool
	Mark(ctx context.Context, eventID string)
}

// Dispatcher fans change events out to a fixed worker pool, one task per
// event. Handlers for different documents run concurrently. Every handler
// error is caught here: logged, recorded in the failure registry, and never
// re-thrown toward the event source, so a failed sync cannot block the
// document-store write the user already sees.
type Dispatcher struct {
	events   <-chan ChangeEvent
	handlers map[string]Handler
	failures repositories.FailedSyncRepository
	dedup    EventDeduper
	workers  int
	log      *zap.Logger
}

// NewDispatcher creates a new Dispatcher reading from events
func NewDispatcher(events <-chan ChangeEvent, failures repositories.FailedSyncRepository, dedup EventDeduper, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		events:   events,
		handlers: make(map[string]Handler),
		failures: failures,
		dedup:    dedup,
		workers:  workers,
		log:      logging.WithComponent("sync-dispatcher"),
	}
}

// RegisterHandler binds a handler to a collection
func (d *Dispatcher) RegisterHandler(collection string, h Handler) {
	d.handlers[collection] = h
}

// Run consumes events until ctx is done or the channel closes
func (d *Dispatcher) Run(ctx context.Context) {
	var wg gosync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-d.events:
					if !ok {
						return
					}
					d.process(ctx, ev)
				}
			}
		}()
	}
	wg.Wait()
}

func (d *Dispatcher) process(ctx context.Context, ev ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("handler panic",
				zap.String("collection", ev.Collection),
				zap.String("document_id", ev.DocumentID),
				zap.Any("panic", r))
		}
	}()

	handler, ok := d.handlers[ev.Collection]
	if !ok {
		d.log.Warn("no handler for collection", zap.String("collection", ev.Collection))
		return
	}

	if d.dedup.Seen(ctx, ev.EventID) {
		d.log.Debug("duplicate event skipped",
			zap.String("collection", ev.Collection),
			zap.String("event_id", ev.EventID))
		return
	}

	if err := handler.Handle(ctx, ev); err != nil {
		d.log.Error("sync handler failed",
			zap.String("collection", ev.Collection),
			zap.String("operation", string(ev.Operation)),
			zap.String("document_id", ev.DocumentID),
			zap.Error(err))

		var se *SyncError
		if errors.As(err, &se) {
			d.failures.Register(ctx, se.Action, se.EntityType, se.EntityID, se.Payload)
		} else {
			d.failures.Register(ctx, ev.Action(), handler.EntityType(), ev.DocumentID, rawPayload(ev))
		}
	}

	// The outcome is settled, success or registered failure. A panic above
	// skips this, leaving the event replayable.
	d.dedup.Mark(ctx, ev.EventID)
}

// rawPayload picks the most useful snapshot for a failure entry
func rawPayload(ev ChangeEvent) interface{} {
	raw := ev.After
	if ev.Operation == OpDelete {
		raw = ev.Before
	}
	if len(raw) == 0 {
		return fmt.Sprintf("document %s", ev.DocumentID)
	}
	return raw.String()
}
