package sync

import (
	"context"
	"fmt"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
)

// LocationHandler applies user location reports: the user's last known
// coordinates are updated together and every report is paired with an
// append-only audit row. Location report documents are immutable, so only
// inserts carry meaning; deletes are ignored to keep the audit trail intact.
type LocationHandler struct {
	users  repositories.UserRepository
	audits repositories.LocationAuditRepository
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(users repositories.UserRepository, audits repositories.LocationAuditRepository) *LocationHandler {
	return &LocationHandler{users: users, audits: audits}
}

// EntityType implements Handler
func (h *LocationHandler) EntityType() string { return "UserLocation" }

// Handle implements Handler
func (h *LocationHandler) Handle(ctx context.Context, ev ChangeEvent) error {
	if ev.Operation != OpInsert {
		return nil
	}

	doc, err := decodeDocument[models.LocationDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionCreate, "UserLocation", ev.DocumentID, rawPayload(ev), err)
	}

	if err := h.users.UpdateLocation(ctx, doc.UserID, doc.Latitude, doc.Longitude); err != nil {
		return syncErr(models.ActionUpdate, "User", doc.UserID,
			map[string]interface{}{"latitude": doc.Latitude, "longitude": doc.Longitude},
			fmt.Errorf("update last known location: %w", err))
	}

	audit := &models.UserLocationAudit{
		UserExternalID: doc.UserID,
		Latitude:       doc.Latitude,
		Longitude:      doc.Longitude,
		CreatedAt:      doc.CreatedAt,
	}
	if err := h.audits.AppendAudit(ctx, audit); err != nil {
		return syncErr(models.ActionCreate, "UserLocationAudit", ev.DocumentID, audit, err)
	}
	return nil
}
