package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// BoundingBox delimits the geospatial search area. Membership is inclusive on
// all four bounds.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// NearbyPost is one row of the nearby-posts result set
type NearbyPost struct {
	ExternalPostID string    `gorm:"column:external_post_id" json:"external_post_id"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// Defaults for the nearby-posts query
const (
	DefaultNearbyWindow = 24 * time.Hour
	DefaultNearbyLimit  = 100
)

// FeedRepository defines the geospatial feed queries
type FeedRepository interface {
	// GetNearbyPosts returns posts whose author's last known location falls
	// inside the box, excluding the requester's own posts, created within the
	// window, newest first, paginated. Read-only and side-effect free.
	GetNearbyPosts(ctx context.Context, externalUserID string, box BoundingBox, window time.Duration, limit, offset int) ([]NearbyPost, error)
}

// PostgresFeedRepository implements FeedRepository for PostgreSQL
type PostgresFeedRepository struct {
	db *gorm.DB
}

// NewPostgresFeedRepository creates a new PostgresFeedRepository
func NewPostgresFeedRepository(db *gorm.DB) *PostgresFeedRepository {
	return &PostgresFeedRepository{db: db}
}

// GetNearbyPosts runs the nearby-posts query against the post and user mirrors
func (r *PostgresFeedRepository) GetNearbyPosts(ctx context.Context, externalUserID string, box BoundingBox, window time.Duration, limit, offset int) ([]NearbyPost, error) {
	if window <= 0 {
		window = DefaultNearbyWindow
	}
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}
	if offset < 0 {
		offset = 0
	}

	since := time.Now().Add(-window)

	query := `
		SELECT p.external_id AS external_post_id,
		       p.created_at AS created_at
		FROM posts p
		INNER JOIN users u ON u.external_id = p.author_external_id AND u.deleted_at IS NULL
		WHERE u.latitude BETWEEN ? AND ?
		  AND u.longitude BETWEEN ? AND ?
		  AND p.author_external_id <> ?
		  AND p.created_at >= ?
		ORDER BY p.created_at DESC
		LIMIT ? OFFSET ?`

	var posts []NearbyPost
	if err := r.db.WithContext(ctx).
		Raw(query, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon, externalUserID, since, limit, offset).
		Scan(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
