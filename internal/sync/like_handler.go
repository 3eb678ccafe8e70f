package sync

import (
	"context"
	"fmt"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
)

// LikeHandler mirrors like documents into PostgreSQL. Likes are immutable in
// the document store, so updates are a no-op.
type LikeHandler struct {
	likes repositories.LikeRepository
	posts repositories.PostRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes repositories.LikeRepository, posts repositories.PostRepository) *LikeHandler {
	return &LikeHandler{likes: likes, posts: posts}
}

// EntityType implements Handler
func (h *LikeHandler) EntityType() string { return "Like" }

// Handle implements Handler
func (h *LikeHandler) Handle(ctx context.Context, ev ChangeEvent) error {
	switch ev.Operation {
	case OpInsert:
		return h.created(ctx, ev)
	case OpDelete:
		if err := h.likes.DeleteLikeByExternalID(ctx, ev.DocumentID); err != nil {
			return syncErr(models.ActionDelete, "Like", ev.DocumentID, rawPayload(ev), err)
		}
	}
	return nil
}

func (h *LikeHandler) created(ctx context.Context, ev ChangeEvent) error {
	doc, err := decodeDocument[models.LikeDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionCreate, "Like", ev.DocumentID, rawPayload(ev), err)
	}

	post, err := h.posts.GetPostByExternalID(ctx, doc.PostID)
	if err != nil {
		return syncErr(models.ActionCreate, "Like", ev.DocumentID, doc,
			fmt.Errorf("resolve post %s: %w", doc.PostID, err))
	}

	like := &models.Like{
		ExternalID:       ev.DocumentID,
		PostID:           post.ID,
		PostExternalID:   doc.PostID,
		AuthorExternalID: doc.AuthorID,
		CreatedAt:        doc.CreatedAt,
	}
	if err := h.likes.CreateLike(ctx, like); err != nil {
		return syncErr(models.ActionCreate, "Like", ev.DocumentID, like, err)
	}
	return nil
}
