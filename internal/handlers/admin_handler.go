package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/notifier"
	"github.com/nearcircle/backend/internal/repositories"
)

// AdminHandler exposes pipeline inspection and manual controls
type AdminHandler struct {
	failedSyncRepository repositories.FailedSyncRepository
	notifyDispatcher     *notifier.Dispatcher
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(failedSyncRepo repositories.FailedSyncRepository, notifyDispatcher *notifier.Dispatcher) *AdminHandler {
	return &AdminHandler{
		failedSyncRepository: failedSyncRepo,
		notifyDispatcher:     notifyDispatcher,
	}
}

// RegisterAdminRoutes registers admin routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/admin/failed-syncs", h.GetFailedSyncs)
	g.POST("/admin/notifications/run", h.RunNotificationPass)
}

// GetFailedSyncs returns paginated failure-registry entries, newest first.
// Replay is the job of an external tool; this is inspection only.
func (h *AdminHandler) GetFailedSyncs(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, total, err := h.failedSyncRepository.ListEntries(c.Request().Context(), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"entries": entries,
		},
		"meta": echo.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalItems":   total,
			"itemsPerPage": limit,
		},
	})
}

// RunNotificationPass triggers one notification pass for the given kind
func (h *AdminHandler) RunNotificationPass(c echo.Context) error {
	kind := models.NotificationKind(c.QueryParam("kind"))
	if kind != models.KindComment && kind != models.KindLike {
		return echo.NewHTTPError(http.StatusBadRequest, "kind must be comment or like")
	}

	result, err := h.notifyDispatcher.RunPass(c.Request().Context(), kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}
