// Package main runs the group scheduling HTTP server with graceful
// shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/timesync/backend/config"
	"github.com/timesync/backend/internal/availability"
	"github.com/timesync/backend/internal/images"
	"github.com/timesync/backend/internal/middleware"
	"github.com/timesync/backend/internal/participants"
	"github.com/timesync/backend/internal/polls"
	"github.com/timesync/backend/internal/store"
	"github.com/timesync/backend/pkg/database"
	"github.com/timesync/backend/pkg/redis"
	"github.com/timesync/backend/pkg/response"
	"github.com/timesync/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	backend, cleanup, err := newBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store backend", zap.Error(err))
	}
	defer cleanup()
	doc := store.New(backend, logger)

	var s3Client *storage.S3
	if cfg.AWS.Region != "" && cfg.AWS.ImagesBucket != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ImagesBucket:         cfg.AWS.ImagesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	// Polls
	pollRepo := polls.NewRepository(doc)
	pollHandler := polls.NewHandler(pollRepo)

	// Participants
	participantRepo := participants.NewRepository(doc)
	participantHandler := participants.NewHandler(participantRepo, pollRepo)

	// Availability
	slotRepo := availability.NewRepository(doc)
	availabilityHandler := availability.NewHandler(slotRepo, pollRepo, participantRepo)

	// Hero images
	imageHandler := images.NewHandler(pollRepo, s3Client, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Polls
	router.POST("/polls", pollHandler.Create)
	router.GET("/polls", pollHandler.List)
	router.GET("/polls/:id", pollHandler.GetByID)
	router.PATCH("/polls/:id", pollHandler.Update)
	router.DELETE("/polls/:id", pollHandler.Delete)
	router.POST("/polls/:id/hero-image", imageHandler.Upload)
	router.GET("/polls/:id/hero-image", imageHandler.Download)

	// Participants
	router.POST("/polls/:id/participants", participantHandler.Join)
	router.GET("/polls/:id/participants", participantHandler.ListByPoll)

	// Availability
	router.GET("/polls/:id/availability", availabilityHandler.GetAvailability)
	router.GET("/polls/:id/results", availabilityHandler.GetResults)
	router.PUT("/participants/:id/slots", availabilityHandler.ReplaceSlots)
	router.GET("/participants/:id/slots", availabilityHandler.ListSlots)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newBackend builds the configured document store backend and returns a
// cleanup closing whatever connection it opened.
func newBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Backend, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemory(), func() {}, nil
	case "redis":
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(rdb.Client, cfg.Store.RedisKey), func() { rdb.Close() }, nil
	case "postgres":
		pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
		if err != nil {
			return nil, nil, err
		}
		backend, err := store.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return backend, pool.Close, nil
	default:
		return store.NewFile(cfg.Store.FilePath), func() {}, nil
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
