package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
	"github.com/nearcircle/backend/pkg/logging"
)

// CommentHandler mirrors comment documents into PostgreSQL and maintains the
// denormalized totalComments counter on the parent post document — the single
// write this pipeline performs back into the document store.
type CommentHandler struct {
	comments  repositories.CommentRepository
	posts     repositories.PostRepository
	documents repositories.DocumentRepository
	log       *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments repositories.CommentRepository, posts repositories.PostRepository, documents repositories.DocumentRepository) *CommentHandler {
	return &CommentHandler{
		comments:  comments,
		posts:     posts,
		documents: documents,
		log:       logging.WithComponent("comment-sync"),
	}
}

// EntityType implements Handler
func (h *CommentHandler) EntityType() string { return "Comment" }

// Handle implements Handler
func (h *CommentHandler) Handle(ctx context.Context, ev ChangeEvent) error {
	switch ev.Operation {
	case OpInsert:
		return h.created(ctx, ev)
	case OpUpdate, OpReplace:
		return h.updated(ctx, ev)
	case OpDelete:
		return h.deleted(ctx, ev)
	}
	return nil
}

func (h *CommentHandler) created(ctx context.Context, ev ChangeEvent) error {
	doc, err := decodeDocument[models.CommentDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionCreate, "Comment", ev.DocumentID, rawPayload(ev), err)
	}

	post, err := h.posts.GetPostByExternalID(ctx, doc.PostID)
	if err != nil {
		return syncErr(models.ActionCreate, "Comment", ev.DocumentID, doc,
			fmt.Errorf("resolve post %s: %w", doc.PostID, err))
	}

	var parent *string
	if doc.ParentCommentID != "" {
		// A reply's parent must already exist; the thread is a tree by construction.
		if _, err := h.comments.GetCommentByExternalID(ctx, doc.ParentCommentID); err != nil {
			return syncErr(models.ActionCreate, "Comment", ev.DocumentID, doc,
				fmt.Errorf("resolve parent comment %s: %w", doc.ParentCommentID, err))
		}
		parent = &doc.ParentCommentID
	}

	comment := &models.Comment{
		ExternalID:              ev.DocumentID,
		PostID:                  post.ID,
		PostExternalID:          doc.PostID,
		AuthorExternalID:        doc.AuthorID,
		ParentCommentExternalID: parent,
		Content:                 doc.Content,
		CreatedAt:               doc.CreatedAt,
		UpdatedAt:               doc.UpdatedAt,
	}
	if err := h.comments.CreateComment(ctx, comment); err != nil {
		return syncErr(models.ActionCreate, "Comment", ev.DocumentID, comment, err)
	}

	return h.adjustCounter(ctx, doc.PostID, totalCommentsDelta(false, doc.Content != ""))
}

func (h *CommentHandler) updated(ctx context.Context, ev ChangeEvent) error {
	after, err := decodeDocument[models.CommentDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionUpdate, "Comment", ev.DocumentID, rawPayload(ev), err)
	}
	before := decodeOptional[models.CommentDocument](ev.Before)

	fields := commentDiff(before, after)
	if len(fields) > 0 {
		if err := h.comments.UpdateCommentFields(ctx, ev.DocumentID, fields); err != nil {
			return syncErr(models.ActionUpdate, "Comment", ev.DocumentID, fields, err)
		}
	}

	// Without a before-image the content transition is unknowable; leave the
	// counter alone rather than guess.
	if before == nil {
		h.log.Warn("comment update without before-image, counter unchanged",
			zap.String("comment_id", ev.DocumentID))
		return nil
	}
	return h.adjustCounter(ctx, after.PostID, totalCommentsDelta(before.Content != "", after.Content != ""))
}

func (h *CommentHandler) deleted(ctx context.Context, ev ChangeEvent) error {
	before := decodeOptional[models.CommentDocument](ev.Before)

	if err := h.comments.DeleteCommentByExternalID(ctx, ev.DocumentID); err != nil {
		return syncErr(models.ActionDelete, "Comment", ev.DocumentID, rawPayload(ev), err)
	}

	if before == nil {
		h.log.Warn("comment delete without before-image, counter unchanged",
			zap.String("comment_id", ev.DocumentID))
		return nil
	}
	return h.adjustCounter(ctx, before.PostID, totalCommentsDelta(before.Content != "", false))
}

func (h *CommentHandler) adjustCounter(ctx context.Context, postExternalID string, delta int) error {
	if delta == 0 {
		return nil
	}
	if err := h.documents.AdjustTotalComments(ctx, postExternalID, delta); err != nil {
		return syncErr(models.ActionUpdate, "Post", postExternalID,
			map[string]interface{}{"total_comments_delta": delta}, err)
	}
	return nil
}

// totalCommentsDelta maps a comment-content transition onto the counter
// adjustment: absent-to-present is +1, present-to-absent is -1, everything
// else leaves the counter alone. The decision is idempotent for a repeated
// (before, after) pair; redelivery of the same event is screened out upstream
// by the Deduper.
func totalCommentsDelta(beforePresent, afterPresent bool) int {
	switch {
	case !beforePresent && afterPresent:
		return 1
	case beforePresent && !afterPresent:
		return -1
	default:
		return 0
	}
}

// commentDiff computes the minimal field set to propagate for an update. With
// no before-image every mutable field is propagated.
func commentDiff(before, after *models.CommentDocument) map[string]interface{} {
	fields := make(map[string]interface{})
	if before == nil || before.Content != after.Content {
		fields["content"] = after.Content
	}
	if before == nil || !before.UpdatedAt.Equal(after.UpdatedAt) {
		fields["updated_at"] = after.UpdatedAt
	}
	return fields
}
