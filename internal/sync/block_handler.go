package sync

import (
	"context"
	"errors"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
)

// BlockHandler maintains the directed blocker-to-blocked edge table. Feed
// filtering on these edges happens elsewhere; this handler only keeps the
// mirror current.
type BlockHandler struct {
	blocks repositories.UserBlockRepository
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(blocks repositories.UserBlockRepository) *BlockHandler {
	return &BlockHandler{blocks: blocks}
}

// EntityType implements Handler
func (h *BlockHandler) EntityType() string { return "UserBlock" }

// Handle implements Handler
func (h *BlockHandler) Handle(ctx context.Context, ev ChangeEvent) error {
	switch ev.Operation {
	case OpInsert:
		doc, err := decodeDocument[models.BlockDocument](ev.After)
		if err != nil {
			return syncErr(models.ActionCreate, "UserBlock", ev.DocumentID, rawPayload(ev), err)
		}
		block := &models.UserBlock{
			BlockerExternalID: doc.BlockerID,
			BlockedExternalID: doc.BlockedID,
			CreatedAt:         doc.CreatedAt,
		}
		if err := h.blocks.CreateBlock(ctx, block); err != nil {
			return syncErr(models.ActionCreate, "UserBlock", ev.DocumentID, block, err)
		}
	case OpDelete:
		before := decodeOptional[models.BlockDocument](ev.Before)
		if before == nil {
			return syncErr(models.ActionDelete, "UserBlock", ev.DocumentID, rawPayload(ev),
				errors.New("block delete without before-image"))
		}
		if err := h.blocks.DeleteBlock(ctx, before.BlockerID, before.BlockedID); err != nil {
			return syncErr(models.ActionDelete, "UserBlock", ev.DocumentID, before, err)
		}
	}
	return nil
}
