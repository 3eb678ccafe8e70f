package repositories

import (
	"context"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for mirrored notification data operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateNotificationFields(ctx context.Context, externalID string, fields map[string]interface{}) error
	DeleteNotificationByExternalID(ctx context.Context, externalID string) error
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// CreateNotification creates a new notification mirror row
func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// UpdateNotificationFields applies a partial update to the notification identified by externalID
func (r *PostgresNotificationRepository) UpdateNotificationFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).Where("external_id = ?", externalID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteNotificationByExternalID deletes a notification mirror row
func (r *PostgresNotificationRepository) DeleteNotificationByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Where("external_id = ?", externalID).Delete(&models.Notification{}).Error
}
