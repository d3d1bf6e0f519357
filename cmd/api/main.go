package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eatup/internal/config"
	"eatup/internal/database"
	"eatup/internal/logger"
	"eatup/internal/recognition"
	"eatup/internal/repository"
	"eatup/internal/server"
	"eatup/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// resources are closed once the HTTP server has drained
type resources struct {
	db    database.Service
	redis *redis.Client
}

func (r resources) close(log *zap.Logger) {
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			log.Error("Failed to close redis client", zap.Error(err))
		}
	}
	if err := r.db.Close(); err != nil {
		log.Error("Failed to close database connection", zap.Error(err))
	}
}

func gracefulShutdown(apiServer *server.Server, res resources, log *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// in-flight requests get 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	res.close(log)
	log.Info("Server exiting")

	done <- true
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("Starting food inventory API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	db := dbService.DB()

	health := dbService.Health()
	log.Info("Database health check", zap.Any("health", health))

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	if version, err := database.MigrationVersion(db); err == nil {
		log.Info("Database migrations completed successfully", zap.Int64("version", version))
	}

	res := resources{db: dbService}
	deps := server.Deps{
		Store:      repository.NewStore(db),
		Database:   dbService,
		Recognizer: recognition.New(cfg.AI, log),
	}

	if cfg.RateLimit.Enabled {
		res.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := res.redis.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unreachable, rate limiter will fail open", zap.Error(err))
		}
		cancel()
		deps.Redis = res.redis
	}

	if cfg.Storage.Enabled() {
		photos, err := storage.NewS3PhotoStore(context.Background(), cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to configure photo storage", zap.Error(err))
		}
		deps.Photos = photos
	}

	srv := server.NewServer(cfg, log, deps)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, res, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
