package models

// Setting keys for the notification weights
const (
	SettingCommentWeight = "comment_weight"
	SettingLikeWeight    = "like_weight"
)

// Setting is a key/value configuration row
type Setting struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Key   string `json:"key" gorm:"uniqueIndex;size:50"`
	Value string `json:"value"`
}
