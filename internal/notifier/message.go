package notifier

import (
	"fmt"
	"strings"

	"firebase.google.com/go/v4/messaging"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
)

// buildMessage constructs the batched push message for one post: the post's
// image, the engaging users, and a body phrased for one or many events.
func buildMessage(kind models.NotificationKind, s repositories.EngagementSummary, score int) *messaging.Message {
	return &messaging.Message{
		Token: s.DeviceToken,
		Notification: &messaging.Notification{
			Title:    messageTitle(kind),
			Body:     messageBody(kind, s.Count),
			ImageURL: s.PostImageURL,
		},
		Data: map[string]string{
			"kind":             string(kind),
			"post_id":          s.PostExternalID,
			"engaged_user_ids": strings.Join(s.EngagedUserIDs, ","),
			"count":            fmt.Sprintf("%d", s.Count),
			"score":            fmt.Sprintf("%d", score),
		},
	}
}

func messageTitle(kind models.NotificationKind) string {
	if kind == models.KindLike {
		return "New likes"
	}
	return "New comments"
}

// messageBody picks singular or aggregate phrasing depending on count
func messageBody(kind models.NotificationKind, count int) string {
	if kind == models.KindLike {
		if count == 1 {
			return "Someone liked your post"
		}
		return fmt.Sprintf("%d people liked your post", count)
	}
	if count == 1 {
		return "Someone commented on your post"
	}
	return fmt.Sprintf("%d new comments on your post", count)
}
