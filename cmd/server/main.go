package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nearcircle/backend/internal/notifier"
	"github.com/nearcircle/backend/internal/repositories"
	"github.com/nearcircle/backend/internal/router"
	syncpipe "github.com/nearcircle/backend/internal/sync"
	"github.com/nearcircle/backend/pkg/config"
	"github.com/nearcircle/backend/pkg/firebase"
	"github.com/nearcircle/backend/pkg/logging"
	"github.com/nearcircle/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logging.InitLogger(cfg.Env, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := logging.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Initialize Firebase messaging
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase", zap.Error(err))
	}

	if err := router.AutoMigrate(db.Postgres); err != nil {
		logger.Fatal("Failed to auto migrate models", zap.Error(err))
	}

	// Relational repositories
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewPostgresPostRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	auditRepo := repositories.NewPostgresLocationAuditRepository(db.Postgres)
	blockRepo := repositories.NewPostgresUserBlockRepository(db.Postgres)
	detailRepo := repositories.NewPostgresNotificationDetailRepository(db.Postgres)
	engagementRepo := repositories.NewPostgresEngagementRepository(db.Postgres)
	settingRepo := repositories.NewPostgresSettingRepository(db.Postgres)
	failedSyncRepo := repositories.NewPostgresFailedSyncRepository(db.Postgres)
	documentRepo := repositories.NewMongoDocumentRepository(db.Mongo.Database(cfg.MongoDatabase))

	// Sync pipeline: change streams -> worker pool -> relational mirrors
	events := make(chan syncpipe.ChangeEvent, 256)
	watcher := syncpipe.NewWatcher(db.Mongo.Database(cfg.MongoDatabase), events)
	dispatcher := syncpipe.NewDispatcher(events, failedSyncRepo, syncpipe.NewDeduper(db.Redis), cfg.SyncWorkers)
	dispatcher.RegisterHandler("users", syncpipe.NewUserHandler(userRepo, auditRepo))
	dispatcher.RegisterHandler("posts", syncpipe.NewPostHandler(postRepo, detailRepo))
	dispatcher.RegisterHandler("comments", syncpipe.NewCommentHandler(commentRepo, postRepo, documentRepo))
	dispatcher.RegisterHandler("likes", syncpipe.NewLikeHandler(likeRepo, postRepo))
	dispatcher.RegisterHandler("notifications", syncpipe.NewNotificationHandler(notificationRepo))
	dispatcher.RegisterHandler("user_locations", syncpipe.NewLocationHandler(userRepo, auditRepo))
	dispatcher.RegisterHandler("blocks", syncpipe.NewBlockHandler(blockRepo))

	go watcher.Run(ctx)
	go dispatcher.Run(ctx)

	// Notification engine
	notifyDispatcher := notifier.NewDispatcher(
		engagementRepo, detailRepo, userRepo, settingRepo,
		firebaseApp.MessagingClient,
		notifier.Weights{Comment: cfg.CommentWeight, Like: cfg.LikeWeight},
		cfg.NotifyThreshold,
	)
	go notifyDispatcher.Run(ctx, cfg.NotifyInterval)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	router.SetupMiddleware(e)
	router.SetupRoutes(e, db.Postgres, notifyDispatcher)
	e.Validator = validators.NewValidator()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := e.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
