package sync

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/nearcircle/backend/internal/models"
)

// fakeUserRepo implements repositories.UserRepository
type fakeUserRepo struct {
	created   []*models.User
	updated   map[string]map[string]interface{}
	locations map[string][2]float64
	cleared   []string
	deleted   []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		updated:   make(map[string]map[string]interface{}),
		locations: make(map[string][2]float64),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserRepo) UpdateUserFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	f.updated[externalID] = fields
	return nil
}

func (f *fakeUserRepo) UpdateLocation(ctx context.Context, externalID string, lat, lon float64) error {
	f.locations[externalID] = [2]float64{lat, lon}
	return nil
}

func (f *fakeUserRepo) ClearDeviceToken(ctx context.Context, externalID string) error {
	f.cleared = append(f.cleared, externalID)
	return nil
}

func (f *fakeUserRepo) DeleteUserByExternalID(ctx context.Context, externalID string) error {
	f.deleted = append(f.deleted, externalID)
	return nil
}

// fakeAuditRepo implements repositories.LocationAuditRepository
type fakeAuditRepo struct {
	appended []*models.UserLocationAudit
	latest   map[string]*models.UserLocationAudit
}

func (f *fakeAuditRepo) AppendAudit(ctx context.Context, audit *models.UserLocationAudit) error {
	f.appended = append(f.appended, audit)
	return nil
}

func (f *fakeAuditRepo) LatestByUserExternalID(ctx context.Context, userExternalID string) (*models.UserLocationAudit, error) {
	if a, ok := f.latest[userExternalID]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestUserHandlerCreatedSeedsLocationFromAuditTrail(t *testing.T) {
	users := newFakeUserRepo()
	audits := &fakeAuditRepo{latest: map[string]*models.UserLocationAudit{
		"u1": {UserExternalID: "u1", Latitude: 52.5, Longitude: 13.4},
	}}
	h := NewUserHandler(users, audits)

	ev := ChangeEvent{
		Operation:  OpInsert,
		DocumentID: "u1",
		After:      mustRaw(t, models.UserDocument{Name: "Ada", Email: "ada@example.com"}),
	}

	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(users.created) != 1 {
		t.Fatalf("created %d users, want 1", len(users.created))
	}
	loc, ok := users.locations["u1"]
	if !ok {
		t.Fatal("location not seeded from the newest audit row")
	}
	if loc[0] != 52.5 || loc[1] != 13.4 {
		t.Errorf("seeded location = %v, want [52.5 13.4]", loc)
	}
}

func TestUserHandlerCreatedWithoutAuditHistory(t *testing.T) {
	users := newFakeUserRepo()
	h := NewUserHandler(users, &fakeAuditRepo{})

	ev := ChangeEvent{
		Operation:  OpInsert,
		DocumentID: "u2",
		After:      mustRaw(t, models.UserDocument{Name: "Ben"}),
	}

	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(users.locations) != 0 {
		t.Errorf("location written without any audit rows: %v", users.locations)
	}
}

func TestUserDiffNeverTouchesIdentityOrLocation(t *testing.T) {
	before := &models.UserDocument{Name: "Ada", Email: "a@example.com"}
	after := &models.UserDocument{Name: "Ada B", Email: "a@example.com"}

	fields := userDiff(before, after)
	for _, key := range []string{"external_id", "latitude", "longitude"} {
		if _, ok := fields[key]; ok {
			t.Errorf("diff contains %s, which this handler must never write", key)
		}
	}
	if fields["name"] != "Ada B" {
		t.Errorf("diff = %v, want name change", fields)
	}
}
