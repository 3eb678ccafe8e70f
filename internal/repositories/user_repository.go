package repositories

import (
	"context"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserFields(ctx context.Context, externalID string, fields map[string]interface{}) error
	UpdateLocation(ctx context.Context, externalID string, lat, lon float64) error
	ClearDeviceToken(ctx context.Context, externalID string) error
	DeleteUserByExternalID(ctx context.Context, externalID string) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateUserFields applies a partial update to the user identified by externalID
func (r *PostgresUserRepository) UpdateUserFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("external_id = ?", externalID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLocation updates both coordinates together; they are never written
// one without the other.
func (r *PostgresUserRepository) UpdateLocation(ctx context.Context, externalID string, lat, lon float64) error {
	return r.UpdateUserFields(ctx, externalID, map[string]interface{}{
		"latitude":  lat,
		"longitude": lon,
	})
}

// ClearDeviceToken removes a user's push token so future batches skip it
func (r *PostgresUserRepository) ClearDeviceToken(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("external_id = ?", externalID).
		Update("device_token", "").Error
}

// DeleteUserByExternalID soft-deletes a user
func (r *PostgresUserRepository) DeleteUserByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Where("external_id = ?", externalID).Delete(&models.User{}).Error
}
