package repositories

import (
	"context"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// LocationAuditRepository defines the interface for the append-only location log
type LocationAuditRepository interface {
	AppendAudit(ctx context.Context, audit *models.UserLocationAudit) error
	LatestByUserExternalID(ctx context.Context, userExternalID string) (*models.UserLocationAudit, error)
}

// PostgresLocationAuditRepository implements LocationAuditRepository for PostgreSQL
type PostgresLocationAuditRepository struct {
	db *gorm.DB
}

// NewPostgresLocationAuditRepository creates a new PostgresLocationAuditRepository
func NewPostgresLocationAuditRepository(db *gorm.DB) *PostgresLocationAuditRepository {
	return &PostgresLocationAuditRepository{db: db}
}

// AppendAudit appends a location audit row. Audit rows are never updated or
// deleted.
func (r *PostgresLocationAuditRepository) AppendAudit(ctx context.Context, audit *models.UserLocationAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// LatestByUserExternalID returns the most recent audit row for a user, used to
// seed the user's last known location.
func (r *PostgresLocationAuditRepository) LatestByUserExternalID(ctx context.Context, userExternalID string) (*models.UserLocationAudit, error) {
	var audit models.UserLocationAudit
	if err := r.db.WithContext(ctx).
		Where("user_external_id = ?", userExternalID).
		Order("created_at DESC").
		First(&audit).Error; err != nil {
		return nil, err
	}
	return &audit, nil
}
