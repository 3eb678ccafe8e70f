package models

import (
	"time"

	"gorm.io/gorm"
)

// User mirrors a user document into PostgreSQL. ExternalID is the
// document-store UID and is immutable once assigned. Email is optional and
// not unique here: identity belongs to the document store, and users without
// an email all mirror the empty string. Latitude and Longitude are always
// written together and every write is paired with a UserLocationAudit row.
type User struct {
	ID                   uint           `json:"id" gorm:"primaryKey"`
	ExternalID           string         `json:"external_id" gorm:"uniqueIndex"`
	Name                 string         `json:"name"`
	Email                string         `json:"email" gorm:"index"`
	Latitude             *float64       `json:"latitude,omitempty"`
	Longitude            *float64       `json:"longitude,omitempty"`
	DeviceToken          string         `json:"-"`
	NotificationsEnabled bool           `json:"notifications_enabled" gorm:"default:true"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserLocationAudit is an append-only log of every location a user reports.
// Rows are never updated or deleted.
type UserLocationAudit struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserExternalID string    `json:"user_external_id" gorm:"index"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}

// UserBlock is a directed edge from blocker to blocked
type UserBlock struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	BlockerExternalID string    `json:"blocker_external_id" gorm:"index;uniqueIndex:idx_blocker_blocked"`
	BlockedExternalID string    `json:"blocked_external_id" gorm:"index;uniqueIndex:idx_blocker_blocked"`
	CreatedAt         time.Time `json:"created_at"`
}
