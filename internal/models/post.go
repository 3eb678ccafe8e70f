package models

import "time"

// Post mirrors a post document into PostgreSQL. Rows are created by the sync
// pipeline only, never by client requests against the relational store.
type Post struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ExternalID       string    `json:"external_id" gorm:"uniqueIndex"`
	AuthorExternalID string    `json:"author_external_id" gorm:"index"`
	ImageURL         string    `json:"image_url,omitempty"`
	CreatedAt        time.Time `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PostNotificationDetail is the per-post notification scheduling state,
// one-to-one with Post. A post is eligible for a notification pass of a kind
// only while the armed flag for that kind is true; the last-sent timestamp is
// the lower bound of the next engagement window for that kind.
type PostNotificationDetail struct {
	ID                                uint      `json:"id" gorm:"primaryKey"`
	PostID                            uint      `json:"post_id" gorm:"uniqueIndex"`
	IsScheduledForCommentNotification bool      `json:"is_scheduled_for_comment_notification"`
	IsScheduledForLikeNotification    bool      `json:"is_scheduled_for_like_notification"`
	LastCommentNotificationSentOn     time.Time `json:"last_comment_notification_sent_on"`
	LastLikeNotificationSentOn        time.Time `json:"last_like_notification_sent_on"`
	CreatedAt                         time.Time `json:"created_at"`
	UpdatedAt                         time.Time `json:"updated_at"`
}

// NotificationKind selects between the two engagement notification channels
type NotificationKind string

const (
	KindComment NotificationKind = "comment"
	KindLike    NotificationKind = "like"
)
