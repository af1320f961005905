package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/config"
	"github.com/yukikurage/bug-tracker-api/internal/database"
	"github.com/yukikurage/bug-tracker-api/internal/handlers"
	"github.com/yukikurage/bug-tracker-api/internal/logger"
	"github.com/yukikurage/bug-tracker-api/internal/services"
	"github.com/yukikurage/bug-tracker-api/internal/storage"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Set up logging
	log, shutdownLogger, err := logger.New(ctx, logger.Options{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		ServiceName:  cfg.ServiceName,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(log)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownLogger(flushCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to flush logs: %v\n", err)
		}
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if cfg.SeedDatabase {
		if err := database.Seed(database.GetDB()); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	// Screenshot storage
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.AdminPasswordHash == "" && cfg.AdminPassword == "admin123" {
		log.Warn("ADMIN_PASSWORD is the built-in default; set it before exposing the service")
	}

	r := handlers.NewRouter(handlers.RouterConfig{
		Store:          store,
		Authorizer:     services.NewAdminAuthorizer(cfg.AdminPassword, cfg.AdminPasswordHash),
		Logger:         log,
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// Start server
	log.Info("Server starting", "port", cfg.Port, "storage", cfg.StorageDriver)
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.StorageDriver {
	case "", "local":
		store, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
		}
		return store, nil
	case "minio", "s3":
		store, err := storage.NewMinioStore(ctx, storage.MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			Region:    cfg.MinioRegion,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
