package sync

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nearcircle/backend/pkg/logging"
)

// WatchedCollections are the document-store paths the sync pipeline subscribes to
var WatchedCollections = []string{"users", "posts", "comments", "likes", "notifications", "user_locations", "blocks"}

const watchRetryDelay = 5 * time.Second

// streamEvent is the raw change-stream document shape
type streamEvent struct {
	OperationType            string   `bson:"operationType"`
	FullDocument             bson.Raw `bson:"fullDocument"`
	FullDocumentBeforeChange bson.Raw `bson:"fullDocumentBeforeChange"`
	DocumentKey              struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
	ClusterTime primitive.Timestamp `bson:"clusterTime"`
}

// Watcher subscribes to change streams and feeds ChangeEvents into a channel
// consumed by the Dispatcher. One goroutine per collection; a broken stream is
// reopened after a short delay until the context is done.
type Watcher struct {
	db  *mongo.Database
	out chan<- ChangeEvent
	log *zap.Logger
}

// NewWatcher creates a new Watcher writing into out
func NewWatcher(db *mongo.Database, out chan<- ChangeEvent) *Watcher {
	return &Watcher{db: db, out: out, log: logging.WithComponent("sync-watcher")}
}

// Run watches every collection until ctx is done
func (w *Watcher) Run(ctx context.Context) {
	for _, coll := range WatchedCollections {
		go w.watchCollection(ctx, coll)
	}
	<-ctx.Done()
}

func (w *Watcher) watchCollection(ctx context.Context, collection string) {
	for {
		if err := w.streamOnce(ctx, collection); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error("change stream broken, reopening",
				zap.String("collection", collection), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(watchRetryDelay):
		}
	}
}

func (w *Watcher) streamOnce(ctx context.Context, collection string) error {
	opts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)

	stream, err := w.db.Collection(collection).Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return err
	}
	defer stream.Close(ctx)

	w.log.Info("watching collection", zap.String("collection", collection))

	for stream.Next(ctx) {
		var raw streamEvent
		if err := stream.Decode(&raw); err != nil {
			w.log.Error("failed to decode change event",
				zap.String("collection", collection), zap.Error(err))
			continue
		}

		ev, ok := toChangeEvent(collection, raw)
		if !ok {
			continue
		}

		select {
		case w.out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return stream.Err()
}

// toChangeEvent converts a raw stream document into a ChangeEvent. Operations
// outside the create/update/replace/delete lifecycle (invalidate, drop) are
// dropped.
func toChangeEvent(collection string, raw streamEvent) (ChangeEvent, bool) {
	op := Operation(raw.OperationType)
	switch op {
	case OpInsert, OpUpdate, OpReplace, OpDelete:
	default:
		return ChangeEvent{}, false
	}

	docID := raw.DocumentKey.ID.Hex()
	return ChangeEvent{
		EventID:    fmt.Sprintf("%s-%s-%d-%d", collection, docID, raw.ClusterTime.T, raw.ClusterTime.I),
		Collection: collection,
		Operation:  op,
		DocumentID: docID,
		Before:     raw.FullDocumentBeforeChange,
		After:      raw.FullDocument,
	}, true
}
