package models

import "time"

// Like mirrors a like document into PostgreSQL
type Like struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ExternalID       string    `json:"external_id" gorm:"uniqueIndex"`
	PostID           uint      `json:"post_id" gorm:"index;uniqueIndex:idx_post_author_like"`
	PostExternalID   string    `json:"post_external_id" gorm:"index"`
	AuthorExternalID string    `json:"author_external_id" gorm:"index;uniqueIndex:idx_post_author_like"`
	CreatedAt        time.Time `json:"created_at" gorm:"index"`
}
