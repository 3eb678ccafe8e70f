package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DocumentRepository covers the single write the sync pipeline performs back
// into the document store: the denormalized comment counter on a post.
type DocumentRepository interface {
	AdjustTotalComments(ctx context.Context, postExternalID string, delta int) error
}

// MongoDocumentRepository implements DocumentRepository for MongoDB
type MongoDocumentRepository struct {
	posts *mongo.Collection
}

// NewMongoDocumentRepository creates a new MongoDocumentRepository
func NewMongoDocumentRepository(db *mongo.Database) *MongoDocumentRepository {
	return &MongoDocumentRepository{posts: db.Collection("posts")}
}

// AdjustTotalComments atomically adds delta to commentsMeta.totalComments on
// the post document.
func (r *MongoDocumentRepository) AdjustTotalComments(ctx context.Context, postExternalID string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postExternalID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.posts.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"commentsMeta.totalComments": delta}})
	return err
}
