package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/nearcircle/backend/internal/models"
	"gorm.io/gorm"
)

// EngagementSummary is one actionable row of the per-kind engagement relation:
// a post with armed notifications and the engagement it accumulated since the
// kind's last-sent timestamp.
type EngagementSummary struct {
	PostID               uint
	PostExternalID       string
	PostImageURL         string
	AuthorExternalID     string
	DeviceToken          string
	NotificationsEnabled bool
	LastSentOn           time.Time
	Count                int
	EngagedUserIDs       []string
}

// EngagementRepository computes the engagement summaries at pass time. The
// aggregation is an explicit query, not a stored view, so a pass always sees
// state as of its own evaluation timestamp. The relation is read-only.
type EngagementRepository interface {
	Summaries(ctx context.Context, kind models.NotificationKind, until time.Time) ([]EngagementSummary, error)
}

// PostgresEngagementRepository implements EngagementRepository for PostgreSQL
type PostgresEngagementRepository struct {
	db *gorm.DB
}

// NewPostgresEngagementRepository creates a new PostgresEngagementRepository
func NewPostgresEngagementRepository(db *gorm.DB) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{db: db}
}

type engagementRow struct {
	PostID               uint      `gorm:"column:post_id"`
	PostExternalID       string    `gorm:"column:post_external_id"`
	PostImageURL         string    `gorm:"column:post_image_url"`
	AuthorExternalID     string    `gorm:"column:author_external_id"`
	DeviceToken          string    `gorm:"column:device_token"`
	NotificationsEnabled bool      `gorm:"column:notifications_enabled"`
	LastSentOn           time.Time `gorm:"column:last_sent_on"`
	Count                int       `gorm:"column:engagement_count"`
	EngagedUserIDs       string    `gorm:"column:engaged_user_ids"`
}

// Summaries joins posts, authors, scheduling state and engagement rows of the
// given kind. Only posts armed for the kind are included; engagement counts
// rows authored by someone other than the post's author, created strictly
// between the kind's last-sent timestamp and `until`. Duplicate engagement
// rows collapse via DISTINCT on the engagement external id.
func (r *PostgresEngagementRepository) Summaries(ctx context.Context, kind models.NotificationKind, until time.Time) ([]EngagementSummary, error) {
	table := "comments"
	armedColumn := "d.is_scheduled_for_comment_notification"
	lastSentColumn := "d.last_comment_notification_sent_on"
	if kind == models.KindLike {
		table = "likes"
		armedColumn = "d.is_scheduled_for_like_notification"
		lastSentColumn = "d.last_like_notification_sent_on"
	}

	query := `
		SELECT p.id AS post_id,
		       p.external_id AS post_external_id,
		       p.image_url AS post_image_url,
		       u.external_id AS author_external_id,
		       u.device_token AS device_token,
		       u.notifications_enabled AS notifications_enabled,
		       ` + lastSentColumn + ` AS last_sent_on,
		       COUNT(DISTINCT e.external_id) AS engagement_count,
		       STRING_AGG(DISTINCT e.author_external_id, ',') AS engaged_user_ids
		FROM posts p
		INNER JOIN users u ON u.external_id = p.author_external_id AND u.deleted_at IS NULL
		INNER JOIN post_notification_details d ON d.post_id = p.id
		INNER JOIN ` + table + ` e ON e.post_id = p.id
		WHERE ` + armedColumn + ` = TRUE
		  AND e.author_external_id <> p.author_external_id
		  AND e.created_at > ` + lastSentColumn + `
		  AND e.created_at < ?
		GROUP BY p.id, p.external_id, p.image_url,
		         u.external_id, u.device_token, u.notifications_enabled,
		         ` + lastSentColumn

	var rows []engagementRow
	if err := r.db.WithContext(ctx).Raw(query, until).Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]EngagementSummary, 0, len(rows))
	for _, row := range rows {
		var engaged []string
		if row.EngagedUserIDs != "" {
			engaged = strings.Split(row.EngagedUserIDs, ",")
		}
		summaries = append(summaries, EngagementSummary{
			PostID:               row.PostID,
			PostExternalID:       row.PostExternalID,
			PostImageURL:         row.PostImageURL,
			AuthorExternalID:     row.AuthorExternalID,
			DeviceToken:          row.DeviceToken,
			NotificationsEnabled: row.NotificationsEnabled,
			LastSentOn:           row.LastSentOn,
			Count:                row.Count,
			EngagedUserIDs:       engaged,
		})
	}
	return summaries, nil
}
