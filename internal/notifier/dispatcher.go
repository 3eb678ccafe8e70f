// Package notifier batches unnotified engagement into weighted, rate-limited
// push notifications. A pass per kind reads the engagement summaries as of a
// single evaluation timestamp, scores them, delivers one aggregated message
// per actionable post, prunes permanently invalid device tokens, and advances
// each attempted post's last-sent timestamp so the same engagement is never
// notified twice.
package notifier

import (
	"context"
	gosync "sync"
	"time"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
	"github.com/nearcircle/backend/pkg/logging"
)

// PushSender is the slice of the FCM client the dispatcher needs.
// *messaging.Client satisfies it.
type PushSender interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

// isPermanentTokenError reports whether a per-token send failure means the
// token will never work again (unregistered or malformed). Transient errors
// are left for the next scheduled pass.
var isPermanentTokenError = func(err error) bool {
	return messaging.IsUnregistered(err) || errorutils.IsInvalidArgument(err)
}

// PassResult summarizes one notification pass
type PassResult struct {
	Kind        models.NotificationKind
	EvaluatedAt time.Time
	Candidates  int
	Attempted   int
	Delivered   int
	Pruned      int
}

// Dispatcher runs engagement notification passes
type Dispatcher struct {
	engagement repositories.EngagementRepository
	details    repositories.NotificationDetailRepository
	users      repositories.UserRepository
	settings   repositories.SettingRepository
	sender     PushSender

	// Decider owns the send-or-not policy over the weighted score; the
	// dispatcher only computes the score.
	Decider func(score int) bool

	defaults Weights
	passMu   map[models.NotificationKind]*gosync.Mutex
	log      *zap.Logger
}

// NewDispatcher creates a Dispatcher. The default decider sends when the
// weighted score reaches threshold.
func NewDispatcher(
	engagement repositories.EngagementRepository,
	details repositories.NotificationDetailRepository,
	users repositories.UserRepository,
	settings repositories.SettingRepository,
	sender PushSender,
	defaults Weights,
	threshold int,
) *Dispatcher {
	return &Dispatcher{
		engagement: engagement,
		details:    details,
		users:      users,
		settings:   settings,
		sender:     sender,
		Decider:    func(score int) bool { return score >= threshold },
		defaults:   defaults,
		passMu: map[models.NotificationKind]*gosync.Mutex{
			models.KindComment: {},
			models.KindLike:    {},
		},
		log: logging.WithComponent("notifier"),
	}
}

// RunPass executes one notification pass for a kind. Passes of the same kind
// are serialized; the evaluation timestamp captured at pass start scopes the
// engagement window so engagement arriving mid-pass is counted by the next
// pass, never twice.
func (d *Dispatcher) RunPass(ctx context.Context, kind models.NotificationKind) (*PassResult, error) {
	mu := d.passMu[kind]
	mu.Lock()
	defer mu.Unlock()

	evalTime := time.Now().UTC()
	weights := d.loadWeights(ctx)

	summaries, err := d.engagement.Summaries(ctx, kind, evalTime)
	if err != nil {
		return nil, err
	}

	result := &PassResult{Kind: kind, EvaluatedAt: evalTime, Candidates: len(summaries)}

	var messages []*messaging.Message
	var attempted []repositories.EngagementSummary
	for _, s := range summaries {
		// Zero-count summaries are never actionable and keep their timestamp.
		if s.Count <= 0 {
			continue
		}
		score := weights.Score(kind, s.Count)
		if !d.Decider(score) {
			continue
		}
		if s.DeviceToken == "" || !s.NotificationsEnabled {
			continue
		}
		messages = append(messages, buildMessage(kind, s, score))
		attempted = append(attempted, s)
	}

	result.Attempted = len(attempted)
	if len(attempted) == 0 {
		return result, nil
	}

	br, err := d.sender.SendEach(ctx, messages)
	if err != nil {
		// Transport failure for the whole batch. The attempt still happened,
		// so the timestamps below advance anyway.
		d.log.Error("push batch failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		result.Delivered = br.SuccessCount
		d.pruneTokens(ctx, br, attempted, result)
	}

	postIDs := make([]uint, len(attempted))
	for i, s := range attempted {
		postIDs[i] = s.PostID
	}
	if err := d.details.AdvanceLastSent(ctx, postIDs, kind, evalTime); err != nil {
		return result, err
	}

	d.log.Info("notification pass completed",
		zap.String("kind", string(kind)),
		zap.Time("evaluated_at", evalTime),
		zap.Int("candidates", result.Candidates),
		zap.Int("attempted", result.Attempted),
		zap.Int("delivered", result.Delivered),
		zap.Int("pruned", result.Pruned))
	return result, nil
}

// pruneTokens walks the batch responses and clears tokens whose failure is
// permanent so future batches skip them.
func (d *Dispatcher) pruneTokens(ctx context.Context, br *messaging.BatchResponse, attempted []repositories.EngagementSummary, result *PassResult) {
	for i, resp := range br.Responses {
		if resp.Success || i >= len(attempted) {
			continue
		}
		if !isPermanentTokenError(resp.Error) {
			continue
		}
		owner := attempted[i].AuthorExternalID
		if err := d.users.ClearDeviceToken(ctx, owner); err != nil {
			d.log.Error("failed to prune device token",
				zap.String("user_id", owner), zap.Error(err))
			continue
		}
		result.Pruned++
		d.log.Info("pruned invalid device token", zap.String("user_id", owner))
	}
}

func (d *Dispatcher) loadWeights(ctx context.Context) Weights {
	return Weights{
		Comment: d.settings.GetInt(ctx, models.SettingCommentWeight, d.defaults.Comment),
		Like:    d.settings.GetInt(ctx, models.SettingLikeWeight, d.defaults.Like),
	}
}

// Run executes passes for both kinds on a fixed interval until ctx is done
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, kind := range []models.NotificationKind{models.KindComment, models.KindLike} {
				if _, err := d.RunPass(ctx, kind); err != nil {
					d.log.Error("notification pass failed",
						zap.String("kind", string(kind)), zap.Error(err))
				}
			}
		}
	}
}
