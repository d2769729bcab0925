package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"hashtag-feed-platform/internal/config"
	"hashtag-feed-platform/internal/feed"
	"hashtag-feed-platform/internal/linkedin"
	"hashtag-feed-platform/internal/logger"
	"hashtag-feed-platform/internal/telemetry"
	"hashtag-feed-platform/middleware"
	"hashtag-feed-platform/routes"
	"hashtag-feed-platform/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing is opt-in: an exporter endpoint is only reachable in
	// environments that run a collector.
	if os.Getenv("OTEL_ENABLED") == "true" {
		shutdown, err := telemetry.InitTracer("hashtag-feed-platform")
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Connect to Redis
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	if !cfg.HasUpstreamCredentials() {
		logger.Warn("LinkedIn credentials not configured; feed requests will fail until they are set")
	}

	// Upstream client and aggregation pipeline
	tokens := linkedin.NewTokenCache(cfg.TokenExpiryBuffer)
	liClient := linkedin.NewClient(cfg, tokens)
	owner := feed.NewOwnerMatcher(cfg.OwnerURN, cfg.OwnerHandle)
	normalizer := feed.NewNormalizer(owner, cfg.OwnerDisplayName)
	aggregator := feed.NewAggregator(liClient, normalizer,
		cfg.MaxFeedTotal, cfg.MaxUpstreamRequests, cfg.UpstreamPageLimit, cfg.PinLimit)

	store := services.NewMongoTipStore(mongoClient.Database(cfg.DBName))
	syncService := services.NewSyncService(store)

	// Queue client hands aggregated batches to the worker. When sync is
	// disabled the feed endpoint still serves, it just never enqueues.
	var queueClient *asynq.Client
	if cfg.SyncEnabled {
		queueClient = asynq.NewClient(config.AsynqRedisOpt(cfg))
		defer queueClient.Close()
	}

	// Scheduled background sync keeps the store warm even when nobody is
	// hitting the feed endpoint.
	if cfg.SyncEnabled {
		scheduler := feed.NewScheduler()
		err := scheduler.ScheduleInterval("feed-sync", cfg.SyncInterval, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			ordered, err := aggregator.Aggregate(ctx, cfg.Hashtag)
			if err != nil {
				return err
			}
			inserted := syncService.SyncIfNew(ctx, ordered)
			logger.Info("Scheduled sync finished",
				"hashtag", cfg.Hashtag, "posts", len(ordered), "inserted", inserted)
			return nil
		})
		if err != nil {
			log.Fatal("Failed to schedule feed sync:", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg)

	// Setup routes
	routes.SetupFeedRoutes(router, cfg, aggregator, queueClient)
	routes.SetupSocialRoutes(router, cfg, liClient, authMiddleware)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
