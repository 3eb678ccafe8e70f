package models

import "time"

// Notification mirrors a user notification document into PostgreSQL
type Notification struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	ExternalID          string    `json:"external_id" gorm:"uniqueIndex"`
	Type                string    `json:"type" gorm:"size:30;index"` // like, comment, follow, mention
	ActorExternalID     string    `json:"actor_external_id" gorm:"index"`
	RecipientExternalID string    `json:"recipient_external_id" gorm:"index"`
	TargetID            string    `json:"target_id"`
	TargetType          string    `json:"target_type" gorm:"size:20"` // post, comment, user
	Message             string    `json:"message"`
	IsRead              bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt           time.Time `json:"created_at" gorm:"index"`
	UpdatedAt           time.Time `json:"updated_at"`
}
