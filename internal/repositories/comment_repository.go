package repositories

import (
	"context"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for mirrored comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByExternalID(ctx context.Context, externalID string) (*models.Comment, error)
	UpdateCommentFields(ctx context.Context, externalID string, fields map[string]interface{}) error
	DeleteCommentByExternalID(ctx context.Context, externalID string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment mirror row
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByExternalID retrieves a comment by its document-store id
func (r *PostgresCommentRepository) GetCommentByExternalID(ctx context.Context, externalID string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateCommentFields applies a partial update to the comment identified by externalID
func (r *PostgresCommentRepository) UpdateCommentFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("external_id = ?", externalID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCommentByExternalID deletes a comment mirror row
func (r *PostgresCommentRepository) DeleteCommentByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Where("external_id = ?", externalID).Delete(&models.Comment{}).Error
}
