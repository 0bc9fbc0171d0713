package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/bizreview-backend/config"
	"github.com/ikkim/bizreview-backend/internal/app/controller"
	"github.com/ikkim/bizreview-backend/internal/app/repository"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	"github.com/ikkim/bizreview-backend/internal/db"
	"github.com/ikkim/bizreview-backend/internal/middleware"
	"github.com/ikkim/bizreview-backend/internal/router"
	"github.com/ikkim/bizreview-backend/internal/storage"
	"github.com/ikkim/bizreview-backend/internal/websocket"
	"github.com/ikkim/bizreview-backend/pkg/logger"
	"github.com/ikkim/bizreview-backend/pkg/metrics"
	"github.com/ikkim/bizreview-backend/pkg/redis"
	"github.com/ikkim/bizreview-backend/pkg/stories"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Service:     "bizreview-backend",
		EnableColor: cfg.Server.IsDevelopment(),
	})

	logger.Info("Starting business review backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"address":     cfg.Server.Addr(),
		"log_level":   cfg.Log.Level,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reviewMetrics := metrics.NewReviewMetrics(registry)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Review actions fan out through redis when enabled so every replica's
	// websocket sessions see them; otherwise the local hub is notified directly.
	var notifier service.ReviewNotifier = hub
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.New(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", err, map[string]interface{}{
				"addr": cfg.Redis.Addr,
			})
		}
		if err := redisClient.SubscribeReviews(ctx, hub.NotifyReview); err != nil {
			logger.Fatal("Failed to subscribe to review events", err)
		}
		notifier = redisClient
	}

	var publisher service.StoryPublisher
	storiesClient, err := stories.NewClient(stories.Config{
		BaseURL: cfg.Stories.BaseURL,
		APIKey:  cfg.Stories.APIKey,
		Timeout: cfg.Stories.Timeout,
	})
	if err != nil {
		logger.Warn("Stories service disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		publisher = storiesClient
	}

	var presigner controller.DocumentPresigner
	s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		logger.Warn("Document uploads disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		presigner = s3Storage
	}

	database := db.GetDB()

	registrationRepo := repository.NewRegistrationRepository(database)
	eventRepo := repository.NewReviewEventRepository(database)
	locationRepo := repository.NewLocationRepository(database)
	promotionRepo := repository.NewPromotionRepository(database)
	businessRepo := repository.NewBusinessRepository(database)
	companyRepo := repository.NewCompanyRepository(database)
	unitRepo := repository.NewUnitRepository(database)
	adminRepo := repository.NewLocationAdminRepository(database)

	registrationService := service.NewRegistrationService(registrationRepo, locationRepo, database, reviewMetrics)
	reviewService := service.NewReviewService(registrationRepo, eventRepo, locationRepo, unitRepo, businessRepo, database, notifier, reviewMetrics)
	locationService := service.NewLocationService(registrationRepo, locationRepo, database)
	promotionService := service.NewPromotionService(registrationRepo, locationRepo, promotionRepo, publisher, database)
	companyService := service.NewCompanyService(companyRepo, unitRepo, registrationRepo, locationRepo, promotionRepo, database)
	locationAdminService := service.NewLocationAdminService(locationRepo, adminRepo, database)
	businessService := service.NewBusinessService(businessRepo)

	controllers := router.Controllers{
		Registration:  controller.NewRegistrationController(registrationService),
		Review:        controller.NewReviewController(reviewService),
		Location:      controller.NewLocationController(locationService),
		Promotion:     controller.NewPromotionController(promotionService),
		LocationAdmin: controller.NewLocationAdminController(locationAdminService),
		Company:       controller.NewCompanyController(companyService),
		Business:      controller.NewBusinessController(businessService),
		Upload:        controller.NewUploadController(presigner),
		Realtime:      controller.NewRealtimeController(hub, cfg.CORS.AllowedOrigins),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	engine := router.NewRouter(controllers, authMiddleware, reviewMetrics, registry, cfg).Setup()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": server.Addr,
			"pid":     os.Getpid(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server gracefully...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server stopped unexpectedly", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	shutdownErr = multierr.Append(shutdownErr, db.Close())
	if shutdownErr != nil {
		logger.Fatal("Shutdown completed with errors", shutdownErr)
	}

	logger.Info("Server stopped successfully")
}
