package main

import (
	"context"
	"log"
	"time"

	"student-records/config"
	"student-records/internal/handler"
	"student-records/internal/redis"
	"student-records/internal/repository"
	"student-records/internal/server"
	"student-records/internal/services"
	"student-records/internal/storage"
	"student-records/pkg/database"
	"student-records/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	appLogger := logger.New(logMode)
	logger.SetGlobalLogger(appLogger)
	defer appLogger.Sync()

	ctx := context.Background()

	store, err := database.Open(ctx, cfg.DocumentStoreURL)
	if err != nil {
		appLogger.Logger.Fatal("failed to open document store", zap.Error(err))
	}
	defer store.Close()

	// An unreachable store is logged and the service keeps running; requests
	// fail with STORE_ERROR until it comes back.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := store.Students.Ping(pingCtx); err != nil {
		appLogger.Logger.Error("document store unreachable", zap.String("kind", store.Kind), zap.Error(err))
	} else {
		appLogger.Logger.Info("document store connected", zap.String("kind", store.Kind))
	}
	cancel()

	if store.Postgres != nil {
		schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := repository.InitSchema(schemaCtx, store.Postgres); err != nil {
			appLogger.Logger.Warn("students schema not applied, will retry on first request", zap.Error(err))
		}
		cancel()
	}

	var (
		avatars       storage.AvatarStore
		avatarHandler *handler.AvatarHandler
	)
	switch cfg.AvatarBackend {
	case config.AvatarBackendS3:
		s3Store, err := storage.NewS3AvatarStore(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PresignTTL: cfg.S3PresignTTL,
		})
		if err != nil {
			appLogger.Logger.Fatal("failed to init s3 avatar store", zap.Error(err))
		}
		avatars = s3Store
		avatarHandler = handler.NewAvatarHandler(s3Store)
	default:
		local, err := storage.NewLocalAvatarStore(cfg.UploadDir)
		if err != nil {
			appLogger.Logger.Fatal("failed to init upload directory", zap.Error(err))
		}
		avatars = local
	}

	var limiter *redis.RateLimiter
	if cfg.WriteRateLimit > 0 {
		if store.Redis == nil {
			appLogger.Logger.Warn("WRITE_RATE_LIMIT needs the redis document store, rate limiting disabled")
		} else {
			rl := redis.DefaultRateLimitConfig()
			rl.WriteLimit = cfg.WriteRateLimit
			limiter = redis.NewRateLimiter(store.Redis, rl)
		}
	}

	studentService := services.NewStudentService(store.Students, avatars, appLogger)

	srv := server.New(cfg, appLogger)
	srv.SetupRoutes(&server.Handlers{
		Students: handler.NewStudentHandler(studentService),
		Health:   handler.NewHealthHandler(studentService),
		Avatars:  avatarHandler,
	}, server.RouteOptions{
		UploadDir:   cfg.UploadDir,
		RateLimiter: limiter,
	})

	if err := srv.Start(); err != nil {
		appLogger.Logger.Error("server shutdown failed", zap.Error(err))
	}
}
