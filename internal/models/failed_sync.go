package models

import "time"

// Sync action kinds recorded by the failure registry
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// FailedSyncEntry is a durable record of a sync operation that could not be
// applied. Entries are appended by the sync pipeline and never deleted by it;
// replay belongs to an external administrative tool.
type FailedSyncEntry struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Action     string    `json:"action" gorm:"size:10"`
	EntityType string    `json:"entity_type" gorm:"size:30;index"`
	EntityID   string    `json:"entity_id" gorm:"index"`
	Payload    string    `json:"payload" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}
