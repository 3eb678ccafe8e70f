package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document-store snapshots. These are the shapes the mobile client writes to
// MongoDB; the sync pipeline decodes change-stream events into them before
// mirroring the data into PostgreSQL.

// CommentsMeta holds the denormalized counters kept on a post document
type CommentsMeta struct {
	TotalComments int `bson:"totalComments" json:"total_comments"`
}

// PostDocument is a post as stored in the document store
type PostDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID     string             `bson:"author_id" json:"author_id" validate:"required"`
	Content      string             `bson:"content" json:"content"`
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CommentsMeta CommentsMeta       `bson:"commentsMeta" json:"comments_meta"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserDocument is a user profile as stored in the document store
type UserDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email" validate:"omitempty,email"`
	DeviceToken          string             `bson:"device_token,omitempty" json:"device_token,omitempty"`
	NotificationsEnabled bool               `bson:"notifications_enabled" json:"notifications_enabled"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

// CommentDocument is a comment as stored in the document store, scoped under
// its post via PostID
type CommentDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID          string             `bson:"post_id" json:"post_id" validate:"required"`
	AuthorID        string             `bson:"author_id" json:"author_id" validate:"required"`
	Content         string             `bson:"content" json:"content"`
	ParentCommentID string             `bson:"parent_comment_id,omitempty" json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// LikeDocument is a like as stored in the document store
type LikeDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    string             `bson:"post_id" json:"post_id" validate:"required"`
	AuthorID  string             `bson:"author_id" json:"author_id" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// NotificationDocument is a user notification as stored in the document store
type NotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        string             `bson:"type" json:"type" validate:"required"`
	ActorID     string             `bson:"actor_id" json:"actor_id"`
	RecipientID string             `bson:"recipient_id" json:"recipient_id" validate:"required"`
	TargetID    string             `bson:"target_id,omitempty" json:"target_id,omitempty"`
	TargetType  string             `bson:"target_type,omitempty" json:"target_type,omitempty"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	IsRead      bool               `bson:"is_read" json:"is_read"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// LocationDocument is a user location report as stored in the document store
type LocationDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id" validate:"required"`
	Latitude  float64            `bson:"latitude" json:"latitude" validate:"min=-90,max=90"`
	Longitude float64            `bson:"longitude" json:"longitude" validate:"min=-180,max=180"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// BlockDocument is a user block edge as stored in the document store
type BlockDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlockerID string             `bson:"blocker_id" json:"blocker_id" validate:"required"`
	BlockedID string             `bson:"blocked_id" json:"blocked_id" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
