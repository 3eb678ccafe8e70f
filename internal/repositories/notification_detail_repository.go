package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationDetailRepository manages per-post notification scheduling state
type NotificationDetailRepository interface {
	// UpsertByPostExternalID creates the detail row for a post, arming both
	// kinds, or re-arms an existing one.
	UpsertByPostExternalID(ctx context.Context, postExternalID string, since time.Time) error
	// AdvanceLastSent moves the last-sent timestamp for a kind to sentAt for
	// every given post.
	AdvanceLastSent(ctx context.Context, postIDs []uint, kind models.NotificationKind, sentAt time.Time) error
}

// PostgresNotificationDetailRepository implements NotificationDetailRepository for PostgreSQL
type PostgresNotificationDetailRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationDetailRepository creates a new PostgresNotificationDetailRepository
func NewPostgresNotificationDetailRepository(db *gorm.DB) *PostgresNotificationDetailRepository {
	return &PostgresNotificationDetailRepository{db: db}
}

// UpsertByPostExternalID creates or re-arms the scheduling state for a post.
// The last-sent timestamps start at `since` so only engagement after that
// point is counted.
func (r *PostgresNotificationDetailRepository) UpsertByPostExternalID(ctx context.Context, postExternalID string, since time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("external_id = ?", postExternalID).First(&post).Error; err != nil {
			return err
		}

		var detail models.PostNotificationDetail
		err := tx.Where("post_id = ?", post.ID).First(&detail).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			detail = models.PostNotificationDetail{
				PostID:                            post.ID,
				IsScheduledForCommentNotification: true,
				IsScheduledForLikeNotification:    true,
				LastCommentNotificationSentOn:     since,
				LastLikeNotificationSentOn:        since,
			}
			return tx.Create(&detail).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&detail).Updates(map[string]interface{}{
			"is_scheduled_for_comment_notification": true,
			"is_scheduled_for_like_notification":    true,
		}).Error
	})
}

// AdvanceLastSent advances the window lower bound for a kind after a batch has
// been attempted, regardless of delivery outcome.
func (r *PostgresNotificationDetailRepository) AdvanceLastSent(ctx context.Context, postIDs []uint, kind models.NotificationKind, sentAt time.Time) error {
	if len(postIDs) == 0 {
		return nil
	}

	column := "last_comment_notification_sent_on"
	if kind == models.KindLike {
		column = "last_like_notification_sent_on"
	}

	return r.db.WithContext(ctx).Model(&models.PostNotificationDetail{}).
		Where("post_id IN ?", postIDs).
		Update(column, sentAt).Error
}
