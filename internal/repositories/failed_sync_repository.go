package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/pkg/logging"
)

// FailedSyncRepository is the failure registry: a durable, append-only record
// of sync operations that could not be applied to the relational store.
type FailedSyncRepository interface {
	// Register appends an entry. It never returns an error: this is already
	// the last-resort failure path, so a registry write failure is only
	// logged, never escalated.
	Register(ctx context.Context, action, entityType, entityID string, payload interface{})
	// ListEntries returns entries for inspection, newest first.
	ListEntries(ctx context.Context, page, limit int) ([]models.FailedSyncEntry, int64, error)
}

// PostgresFailedSyncRepository implements FailedSyncRepository for PostgreSQL
type PostgresFailedSyncRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPostgresFailedSyncRepository creates a new PostgresFailedSyncRepository
func NewPostgresFailedSyncRepository(db *gorm.DB) *PostgresFailedSyncRepository {
	return &PostgresFailedSyncRepository{
		db:  db,
		log: logging.WithComponent("failed-sync-registry"),
	}
}

// Register appends a failure entry capturing enough information to replay the
// operation later.
func (r *PostgresFailedSyncRepository) Register(ctx context.Context, action, entityType, entityID string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte(fmt.Sprintf("%q", fmt.Sprint(payload)))
	}

	entry := models.FailedSyncEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    string(raw),
	}

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.log.Error("failed to register sync failure",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
		return
	}

	r.log.Warn("sync failure registered",
		zap.String("action", action),
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID))
}

// ListEntries returns failure entries newest first with total count
func (r *PostgresFailedSyncRepository) ListEntries(ctx context.Context, page, limit int) ([]models.FailedSyncEntry, int64, error) {
	var entries []models.FailedSyncEntry
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.FailedSyncEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
