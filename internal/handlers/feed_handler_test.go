package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nearcircle/backend/internal/repositories"
	"github.com/nearcircle/backend/validators"
)

// fakeFeedRepo implements repositories.FeedRepository
type fakeFeedRepo struct {
	userID string
	box    repositories.BoundingBox
	window time.Duration
	limit  int
	offset int
	calls  int
}

func (f *fakeFeedRepo) GetNearbyPosts(ctx context.Context, externalUserID string, box repositories.BoundingBox, window time.Duration, limit, offset int) ([]repositories.NearbyPost, error) {
	f.calls++
	f.userID = externalUserID
	f.box = box
	f.window = window
	f.limit = limit
	f.offset = offset
	return []repositories.NearbyPost{}, nil
}

func nearbyRequest(t *testing.T, repo *fakeFeedRepo, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(http.MethodGet, "/feed/nearby?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewFeedHandler(repo)
	if err := h.GetNearbyPosts(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestGetNearbyPostsDefaults(t *testing.T) {
	repo := &fakeFeedRepo{}
	rec := nearbyRequest(t, repo, "user_id=u1&min_lat=10&max_lat=20&min_lon=30&max_lon=40")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if repo.calls != 1 {
		t.Fatalf("repository called %d times, want 1", repo.calls)
	}
	if repo.userID != "u1" {
		t.Errorf("userID = %s, want u1", repo.userID)
	}
	if repo.window != repositories.DefaultNearbyWindow {
		t.Errorf("window = %v, want default %v", repo.window, repositories.DefaultNearbyWindow)
	}
	if repo.box.MinLat != 10 || repo.box.MaxLat != 20 || repo.box.MinLon != 30 || repo.box.MaxLon != 40 {
		t.Errorf("box = %+v", repo.box)
	}
}

func TestGetNearbyPostsCustomWindow(t *testing.T) {
	repo := &fakeFeedRepo{}
	rec := nearbyRequest(t, repo, "user_id=u1&min_lat=0&max_lat=1&min_lon=0&max_lon=1&window=2h")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if repo.window != 2*time.Hour {
		t.Errorf("window = %v, want 2h", repo.window)
	}
}

func TestGetNearbyPostsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing user id", "min_lat=0&max_lat=1&min_lon=0&max_lon=1"},
		{"inverted box", "user_id=u1&min_lat=5&max_lat=1&min_lon=0&max_lon=1"},
		{"latitude out of range", "user_id=u1&min_lat=-95&max_lat=1&min_lon=0&max_lon=1"},
		{"malformed window", "user_id=u1&min_lat=0&max_lat=1&min_lon=0&max_lon=1&window=tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeFeedRepo{}
			rec := nearbyRequest(t, repo, tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if repo.calls != 0 {
				t.Errorf("repository reached with invalid input")
			}
		})
	}
}
