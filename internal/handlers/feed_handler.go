package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nearcircle/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedRepository repositories.FeedRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedRepo repositories.FeedRepository) *FeedHandler {
	return &FeedHandler{feedRepository: feedRepo}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed/nearby", h.GetNearbyPosts)
}

// NearbyPostsRequest carries the bounding box, recency window and pagination
// for the nearby-posts query
type NearbyPostsRequest struct {
	UserID string  `query:"user_id" validate:"required"`
	MinLat float64 `query:"min_lat" validate:"min=-90,max=90"`
	MaxLat float64 `query:"max_lat" validate:"min=-90,max=90"`
	MinLon float64 `query:"min_lon" validate:"min=-180,max=180"`
	MaxLon float64 `query:"max_lon" validate:"min=-180,max=180"`
	Window string  `query:"window"` // Go duration string, default 24h
	Limit  int     `query:"limit" validate:"min=0,max=500"`
	Offset int     `query:"offset" validate:"min=0"`
}

// GetNearbyPosts returns recent posts authored near the given bounding box,
// newest first, excluding the requester's own posts
func (h *FeedHandler) GetNearbyPosts(c echo.Context) error {
	var req NearbyPostsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.MinLat > req.MaxLat || req.MinLon > req.MaxLon {
		return echo.NewHTTPError(http.StatusBadRequest, "bounding box minimum exceeds maximum")
	}

	window := repositories.DefaultNearbyWindow
	if req.Window != "" {
		parsed, err := time.ParseDuration(req.Window)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid window duration")
		}
		window = parsed
	}

	box := repositories.BoundingBox{
		MinLat: req.MinLat,
		MaxLat: req.MaxLat,
		MinLon: req.MinLon,
		MaxLon: req.MaxLon,
	}

	posts, err := h.feedRepository.GetNearbyPosts(c.Request().Context(), req.UserID, box, window, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": posts,
		},
	})
}
