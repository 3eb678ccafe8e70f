package repositories

import (
	"context"
	"strconv"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// SettingRepository reads key/value configuration rows
type SettingRepository interface {
	// GetInt returns the integer value stored under key, or fallback when the
	// row is missing or malformed.
	GetInt(ctx context.Context, key string, fallback int) int
}

// PostgresSettingRepository implements SettingRepository for PostgreSQL
type PostgresSettingRepository struct {
	db *gorm.DB
}

// NewPostgresSettingRepository creates a new PostgresSettingRepository
func NewPostgresSettingRepository(db *gorm.DB) *PostgresSettingRepository {
	return &PostgresSettingRepository{db: db}
}

// GetInt returns the integer setting stored under key, falling back on any miss
func (r *PostgresSettingRepository) GetInt(ctx context.Context, key string, fallback int) int {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil {
		return fallback
	}
	return n
}
