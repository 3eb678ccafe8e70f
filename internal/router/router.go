package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/nearcircle/backend/internal/handlers"
	"github.com/nearcircle/backend/internal/models"
	"github.com/nearcircle/backend/internal/notifier"
	"github.com/nearcircle/backend/internal/repositories"
	"github.com/nearcircle/backend/pkg/logging"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// AutoMigrate runs migrations for all relational models
func AutoMigrate(pgdb *gorm.DB) error {
	return pgdb.AutoMigrate(
		&models.User{},
		&models.UserLocationAudit{},
		&models.UserBlock{},
		&models.Post{},
		&models.PostNotificationDetail{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.FailedSyncEntry{},
		&models.Setting{},
	)
}

// SetupRoutes configures the read/admin API surface
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, notifyDispatcher *notifier.Dispatcher) {
	log := logging.WithComponent("router")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")

	feedHandler := handlers.NewFeedHandler(repositories.NewPostgresFeedRepository(pgdb))
	feedHandler.RegisterFeedRoutes(api)

	adminHandler := handlers.NewAdminHandler(repositories.NewPostgresFailedSyncRepository(pgdb), notifyDispatcher)
	adminHandler.RegisterAdminRoutes(api)

	log.Info("routes configured")
}
