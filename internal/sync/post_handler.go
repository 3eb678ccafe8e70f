package sync

import (
	"context"
	"fmt"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
)

// PostHandler mirrors post documents into PostgreSQL and arms the per-post
// notification scheduling state via the create-or-update upsert.
type PostHandler struct {
	posts   repositories.PostRepository
	details repositories.NotificationDetailRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts repositories.PostRepository, details repositories.NotificationDetailRepository) *PostHandler {
	return &PostHandler{posts: posts, details: details}
}

// EntityType implements Handler
func (h *PostHandler) EntityType() string { return "Post" }

// Handle implements Handler
func (h *PostHandler) Handle(ctx context.Context, ev ChangeEvent) error {
	switch ev.Operation {
	case OpInsert:
		return h.created(ctx, ev)
	case OpUpdate, OpReplace:
		return h.updated(ctx, ev)
	case OpDelete:
		if err := h.posts.DeletePostByExternalID(ctx, ev.DocumentID); err != nil {
			return syncErr(models.ActionDelete, "Post", ev.DocumentID, rawPayload(ev), err)
		}
	}
	return nil
}

func (h *PostHandler) created(ctx context.Context, ev ChangeEvent) error {
	doc, err := decodeDocument[models.PostDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionCreate, "Post", ev.DocumentID, rawPayload(ev), err)
	}

	post := &models.Post{
		ExternalID:       ev.DocumentID,
		AuthorExternalID: doc.AuthorID,
		ImageURL:         doc.ImageURL,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
	if err := h.posts.CreatePost(ctx, post); err != nil {
		return syncErr(models.ActionCreate, "Post", ev.DocumentID, post, err)
	}

	// Arm both notification kinds; engagement before the post existed cannot
	// occur, so the window starts at the post's creation time.
	if err := h.details.UpsertByPostExternalID(ctx, ev.DocumentID, doc.CreatedAt); err != nil {
		return syncErr(models.ActionCreate, "PostNotificationDetail", ev.DocumentID,
			map[string]interface{}{"post_external_id": ev.DocumentID},
			fmt.Errorf("arm notification detail: %w", err))
	}
	return nil
}

func (h *PostHandler) updated(ctx context.Context, ev ChangeEvent) error {
	after, err := decodeDocument[models.PostDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionUpdate, "Post", ev.DocumentID, rawPayload(ev), err)
	}
	before := decodeOptional[models.PostDocument](ev.Before)

	fields := postDiff(before, after)
	if len(fields) == 0 {
		return nil
	}
	if err := h.posts.UpdatePostFields(ctx, ev.DocumentID, fields); err != nil {
		return syncErr(models.ActionUpdate, "Post", ev.DocumentID, fields, err)
	}
	return nil
}

// postDiff computes the minimal field set to propagate for an update. The
// denormalized counters and content live only in the document store, so only
// the mirrored columns are considered.
func postDiff(before, after *models.PostDocument) map[string]interface{} {
	fields := make(map[string]interface{})
	if before == nil || before.ImageURL != after.ImageURL {
		fields["image_url"] = after.ImageURL
	}
	if before == nil || !before.UpdatedAt.Equal(after.UpdatedAt) {
		fields["updated_at"] = after.UpdatedAt
	}
	return fields
}
