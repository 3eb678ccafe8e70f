package repositories

import (
	"context"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for mirrored post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByExternalID(ctx context.Context, externalID string) (*models.Post, error)
	UpdatePostFields(ctx context.Context, externalID string, fields map[string]interface{}) error
	DeletePostByExternalID(ctx context.Context, externalID string) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post mirror row
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPostByExternalID retrieves a post by its document-store id
func (r *PostgresPostRepository) GetPostByExternalID(ctx context.Context, externalID string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePostFields applies a partial update to the post identified by externalID
func (r *PostgresPostRepository) UpdatePostFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("external_id = ?", externalID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePostByExternalID deletes a post mirror row and its dependents
func (r *PostgresPostRepository) DeletePostByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("external_id = ?", externalID).First(&post).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostNotificationDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}
