package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/udonggeum-storefront/config"
	"github.com/ikkim/udonggeum-storefront/internal/app/controller"
	"github.com/ikkim/udonggeum-storefront/internal/app/repository"
	"github.com/ikkim/udonggeum-storefront/internal/app/service"
	"github.com/ikkim/udonggeum-storefront/internal/asset"
	"github.com/ikkim/udonggeum-storefront/internal/db"
	"github.com/ikkim/udonggeum-storefront/internal/events"
	"github.com/ikkim/udonggeum-storefront/internal/router"
	"github.com/ikkim/udonggeum-storefront/internal/scheduler"
	"github.com/ikkim/udonggeum-storefront/internal/storage"
	ws "github.com/ikkim/udonggeum-storefront/internal/websocket"
	"github.com/ikkim/udonggeum-storefront/pkg/commerce"
	"github.com/ikkim/udonggeum-storefront/pkg/logger"
	"github.com/ikkim/udonggeum-storefront/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logFormat := "console"
	if cfg.Server.Environment == "production" {
		logFormat = "json"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting storefront server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"cart_backend": cfg.Cart.Backend,
	})

	// Redis backs the product cache and, optionally, the cart snapshot
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	snapshotRepo, err := newSnapshotRepository(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize cart snapshot backend", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Asset index: a missing index only means every image goes over the network
	index, err := asset.LoadIndexFile(cfg.Storefront.AssetIndexPath)
	if err != nil {
		logger.Warn("Asset index unavailable, resolving all images remotely", map[string]interface{}{
			"path":  cfg.Storefront.AssetIndexPath,
			"error": err.Error(),
		})
		index = asset.NewIndex(nil)
	}
	resolver := asset.NewResolver(index, asset.Options{
		Origin:          cfg.Storefront.APIOrigin,
		PlaceholderName: cfg.Storefront.PlaceholderName,
	})

	commerceClient, err := commerce.NewClient(commerce.Config{
		BaseURL: cfg.Commerce.BaseURL,
		APIKey:  cfg.Commerce.APIKey,
		Timeout: cfg.Commerce.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create commerce client", err)
	}

	productCache := repository.NewNoopProductCacheRepository()
	if cfg.Redis.Enabled() {
		productCache = repository.NewRedisProductCacheRepository(redis.GetClient(), "storefront:", cfg.Redis.ProductCache)
	}

	// Initialize services
	catalogService := service.NewCatalogService(commerceClient, productCache, resolver)
	cartService := service.NewCartService(snapshotRepo, service.CartServiceOptions{
		LoadTimeout:  cfg.Cart.LoadTimeout,
		WriteTimeout: cfg.Cart.WriteTimeout,
	})
	cartService.Load(context.Background())

	channel := events.NewChannel()
	hub := ws.NewHub(channel, events.TopicCartOpen, events.TopicCartChanged)
	go hub.Run()

	// Initialize controllers
	cartController := controller.NewCartController(cartService, catalogService, channel)
	productController := controller.NewProductController(catalogService)
	imageController := controller.NewImageController(catalogService)
	eventController := controller.NewEventController(hub, channel, cfg.CORS.AllowedOrigins)

	r := router.NewRouter(
		cartController,
		productController,
		imageController,
		eventController,
		cfg,
	)
	engine := r.Setup()

	checkpoints := scheduler.NewSnapshotScheduler(cfg.Cart.CheckpointSpec, cartService)
	if err := checkpoints.Start(); err != nil {
		logger.Warn("Cart checkpoint scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	checkpoints.Stop()
	hub.Stop()

	// Last chance to land the latest cart snapshot
	if err := cartService.Close(ctx); err != nil {
		logger.Error("Failed to flush cart snapshot", err)
	}
	logger.Info("Server stopped successfully")
}

// newSnapshotRepository builds the cart persistence backend named by
// CART_SNAPSHOT_BACKEND.
func newSnapshotRepository(cfg *config.Config) (repository.CartSnapshotRepository, error) {
	key := cfg.Cart.SnapshotKey

	switch cfg.Cart.Backend {
	case "file", "":
		return repository.NewFileCartSnapshotRepository(cfg.Cart.SnapshotDir, key), nil

	case "redis":
		if !cfg.Redis.Enabled() {
			return nil, fmt.Errorf("redis cart backend requires REDIS_HOST")
		}
		return repository.NewRedisCartSnapshotRepository(redis.GetClient(), key), nil

	case "sql":
		if err := db.Initialize(&cfg.Database); err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			return nil, err
		}
		return repository.NewSQLCartSnapshotRepository(db.GetDB(), key), nil

	case "s3":
		store := storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
		return repository.NewObjectCartSnapshotRepository(store, key), nil

	default:
		return nil, fmt.Errorf("unknown cart snapshot backend %q", cfg.Cart.Backend)
	}
}
