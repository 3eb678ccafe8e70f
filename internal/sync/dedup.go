package sync

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/nearcircle/backend/pkg/logging"
)

const dedupTTL = 24 * time.Hour

// Deduper screens redelivered change events so an at-least-once redelivery
// cannot re-apply side effects such as the comment counter increment. Events
// are marked only after their handler has finished, so a crash mid-handler
// leaves the event replayable.
type Deduper struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewDeduper creates a Deduper. A nil redis client disables dedup: every
// event is treated as first delivery.
func NewDeduper(rdb *redis.Client) *Deduper {
	return &Deduper{rdb: rdb, log: logging.WithComponent("sync-dedup")}
}

// Seen reports whether eventID was already processed. When Redis is
// unavailable it reports false so the event still syncs; availability wins
// over exactness here.
func (d *Deduper) Seen(ctx context.Context, eventID string) bool {
	if d.rdb == nil || eventID == "" {
		return false
	}

	n, err := d.rdb.Exists(ctx, dedupKey(eventID)).Result()
	if err != nil {
		d.log.Warn("dedup check failed, processing event anyway",
			zap.String("event_id", eventID), zap.Error(err))
		return false
	}
	return n > 0
}

// Mark records eventID as processed. Called after the handler returned,
// whether the outcome was success or a registered failure.
func (d *Deduper) Mark(ctx context.Context, eventID string) {
	if d.rdb == nil || eventID == "" {
		return
	}

	if err := d.rdb.Set(ctx, dedupKey(eventID), 1, dedupTTL).Err(); err != nil {
		d.log.Warn("could not mark event as processed",
			zap.String("event_id", eventID), zap.Error(err))
	}
}

func dedupKey(eventID string) string {
	return "sync:event:" + eventID
}
