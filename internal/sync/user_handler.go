package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/repositories"
	"github.com/nearcircle/backend/pkg/logging"
)

// UserHandler mirrors user documents into PostgreSQL. The external id is
// immutable once assigned, so it is never part of an update diff; ongoing
// location reports are owned by the location handler, this handler only seeds
// a freshly created mirror row from the audit trail.
type UserHandler struct {
	users  repositories.UserRepository
	audits repositories.LocationAuditRepository
	log    *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users repositories.UserRepository, audits repositories.LocationAuditRepository) *UserHandler {
	return &UserHandler{
		users:  users,
		audits: audits,
		log:    logging.WithComponent("user-sync"),
	}
}

// EntityType implements Handler
func (h *UserHandler) EntityType() string { return "User" }

// Handle implements Handler
func (h *UserHandler) Handle(ctx context.Context, ev ChangeEvent) error {
	switch ev.Operation {
	case OpInsert:
		return h.created(ctx, ev)
	case OpUpdate, OpReplace:
		return h.updated(ctx, ev)
	case OpDelete:
		if err := h.users.DeleteUserByExternalID(ctx, ev.DocumentID); err != nil {
			return syncErr(models.ActionDelete, "User", ev.DocumentID, rawPayload(ev), err)
		}
	}
	return nil
}

func (h *UserHandler) created(ctx context.Context, ev ChangeEvent) error {
	doc, err := decodeDocument[models.UserDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionCreate, "User", ev.DocumentID, rawPayload(ev), err)
	}

	user := &models.User{
		ExternalID:           ev.DocumentID,
		Name:                 doc.Name,
		Email:                doc.Email,
		DeviceToken:          doc.DeviceToken,
		NotificationsEnabled: doc.NotificationsEnabled,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
	if err := h.users.CreateUser(ctx, user); err != nil {
		return syncErr(models.ActionCreate, "User", ev.DocumentID, user, err)
	}
	return h.seedLocation(ctx, ev.DocumentID)
}

// seedLocation backfills the last known location from the newest audit row.
// Location reports can sync before the user document does, so a fresh mirror
// row may already have an audit history.
func (h *UserHandler) seedLocation(ctx context.Context, externalID string) error {
	audit, err := h.audits.LatestByUserExternalID(ctx, externalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		h.log.Warn("could not read audit trail to seed location",
			zap.String("user_id", externalID), zap.Error(err))
		return nil
	}

	if err := h.users.UpdateLocation(ctx, externalID, audit.Latitude, audit.Longitude); err != nil {
		return syncErr(models.ActionUpdate, "User", externalID,
			map[string]interface{}{"latitude": audit.Latitude, "longitude": audit.Longitude}, err)
	}
	return nil
}

func (h *UserHandler) updated(ctx context.Context, ev ChangeEvent) error {
	after, err := decodeDocument[models.UserDocument](ev.After)
	if err != nil {
		return syncErr(models.ActionUpdate, "User", ev.DocumentID, rawPayload(ev), err)
	}
	before := decodeOptional[models.UserDocument](ev.Before)

	fields := userDiff(before, after)
	if len(fields) == 0 {
		return nil
	}
	if err := h.users.UpdateUserFields(ctx, ev.DocumentID, fields); err != nil {
		return syncErr(models.ActionUpdate, "User", ev.DocumentID, fields, err)
	}
	return nil
}

// userDiff computes the minimal field set to propagate for an update
func userDiff(before, after *models.UserDocument) map[string]interface{} {
	fields := make(map[string]interface{})
	if before == nil || before.Name != after.Name {
		fields["name"] = after.Name
	}
	if before == nil || before.Email != after.Email {
		fields["email"] = after.Email
	}
	if before == nil || before.DeviceToken != after.DeviceToken {
		fields["device_token"] = after.DeviceToken
	}
	if before == nil || before.NotificationsEnabled != after.NotificationsEnabled {
		fields["notifications_enabled"] = after.NotificationsEnabled
	}
	if before == nil || !before.UpdatedAt.Equal(after.UpdatedAt) {
		fields["updated_at"] = after.UpdatedAt
	}
	return fields
}
