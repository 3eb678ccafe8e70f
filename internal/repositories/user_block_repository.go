package repositories

import (
	"context"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserBlockRepository defines the interface for block edge operations
type UserBlockRepository interface {
	CreateBlock(ctx context.Context, block *models.UserBlock) error
	DeleteBlock(ctx context.Context, blockerExternalID, blockedExternalID string) error
}

// PostgresUserBlockRepository implements UserBlockRepository for PostgreSQL
type PostgresUserBlockRepository struct {
	db *gorm.DB
}

// NewPostgresUserBlockRepository creates a new PostgresUserBlockRepository
func NewPostgresUserBlockRepository(db *gorm.DB) *PostgresUserBlockRepository {
	return &PostgresUserBlockRepository{db: db}
}

// CreateBlock creates a block edge; re-creating an existing edge is a no-op
func (r *PostgresUserBlockRepository) CreateBlock(ctx context.Context, block *models.UserBlock) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(block).Error
}

// DeleteBlock removes a block edge
func (r *PostgresUserBlockRepository) DeleteBlock(ctx context.Context, blockerExternalID, blockedExternalID string) error {
	return r.db.WithContext(ctx).
		Where("blocker_external_id = ? AND blocked_external_id = ?", blockerExternalID, blockedExternalID).
		Delete(&models.UserBlock{}).Error
}
