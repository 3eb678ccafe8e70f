package sync

import (
	"context"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
)

// NotificationHandler mirrors notification documents into PostgreSQL
type NotificationHandler struct {
	notifications repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// EntityType implements Handler
func (h *NotificationHandler) EntityType() string { return "Notification" }

// Handle implements Handler
func (h *NotificationHandler) Handle(ctx context.Context, ev ChangeEvent) error {
	switch ev.Operation {
	case OpInsert:
		return h.created(ctx, ev)
	case OpUpdate, OpReplace:
		return h.updated(ctx, ev)
	case OpDelete:
		if err := h.notifications.DeleteNotificationByExternalID(ctx, ev.DocumentID); err != nil {
			return syncErr(models.ActionDelete, "Notification", ev.DocumentID, rawPayload(ev), err)
		}
	}
	return nil
}

func (h *NotificationHandler) created(ctx context.Context, ev ChangeEvent) error {
	doc, err := decodeDocument[models.NotificationDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionCreate, "Notification", ev.DocumentID, rawPayload(ev), err)
	}

	notification := &models.Notification{
		ExternalID:          ev.DocumentID,
		Type:                doc.Type,
		ActorExternalID:     doc.ActorID,
		RecipientExternalID: doc.RecipientID,
		TargetID:            doc.TargetID,
		TargetType:          doc.TargetType,
		Message:             doc.Message,
		IsRead:              doc.IsRead,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}
	if err := h.notifications.CreateNotification(ctx, notification); err != nil {
		return syncErr(models.ActionCreate, "Notification", ev.DocumentID, notification, err)
	}
	return nil
}

func (h *NotificationHandler) updated(ctx context.Context, ev ChangeEvent) error {
	after, err := decodeDocument[models.NotificationDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionUpdate, "Notification", ev.DocumentID, rawPayload(ev), err)
	}
	before := decodeOptional[models.NotificationDocument](ev.Before)

	fields := notificationDiff(before, after)
	if len(fields) == 0 {
		return nil
	}
	if err := h.notifications.UpdateNotificationFields(ctx, ev.DocumentID, fields); err != nil {
		return syncErr(models.ActionUpdate, "Notification", ev.DocumentID, fields, err)
	}
	return nil
}

// notificationDiff computes the minimal field set to propagate for an update.
// In practice only the read flag flips after creation.
func notificationDiff(before, after *models.NotificationDocument) map[string]interface{} {
	fields := make(map[string]interface{})
	if before == nil || before.IsRead != after.IsRead {
		fields["is_read"] = after.IsRead
	}
	if before == nil || before.Message != after.Message {
		fields["message"] = after.Message
	}
	if before == nil || !before.UpdatedAt.Equal(after.UpdatedAt) {
		fields["updated_at"] = after.UpdatedAt
	}
	return fields
}
