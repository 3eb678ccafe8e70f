package models

import "time"

// Comment mirrors a comment document into PostgreSQL. The parent post is
// referenced both by internal and external id; the redundancy keeps lookups
// cheap in either direction. A reply carries its parent comment's external id,
// and the parent must already exist, so the thread forms a tree rooted at the
// post.
type Comment struct {
	ID                      uint      `json:"id" gorm:"primaryKey"`
	ExternalID              string    `json:"external_id" gorm:"uniqueIndex"`
	PostID                  uint      `json:"post_id" gorm:"index"`
	PostExternalID          string    `json:"post_external_id" gorm:"index"`
	AuthorExternalID        string    `json:"author_external_id" gorm:"index"`
	ParentCommentExternalID *string   `json:"parent_comment_external_id,omitempty" gorm:"index"`
	Content                 string    `json:"content"`
	CreatedAt               time.Time `json:"created_at" gorm:"index"`
	UpdatedAt               time.Time `json:"updated_at"`
}
