package repositories

import (
	"context"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for mirrored like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLikeByExternalID(ctx context.Context, externalID string) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like mirror row
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// DeleteLikeByExternalID deletes a like mirror row
func (r *PostgresLikeRepository) DeleteLikeByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Where("external_id = ?", externalID).Delete(&models.Like{}).Error
}
