package notifier

import "github.com/nearcircle/backend/internal/models"

// Weights are the per-kind engagement multipliers. They live as key/value
// rows in the settings table and are loaded once at pass start, never read
// mid-computation.
type Weights struct {
	Comment int
	Like    int
}

// For returns the weight for a notification kind
func (w Weights) For(kind models.NotificationKind) int {
	if kind == models.KindLike {
		return w.Like
	}
	return w.Comment
}

// Score computes the weighted engagement score for a kind
func (w Weights) Score(kind models.NotificationKind, count int) int {
	return count * w.For(kind)
}
