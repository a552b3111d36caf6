package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/plotweave/internal/api"
	"github.com/Harshitk-cp/plotweave/internal/buildconfig"
	"github.com/Harshitk-cp/plotweave/internal/config"
	"github.com/Harshitk-cp/plotweave/internal/logging"
	"github.com/Harshitk-cp/plotweave/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	bootLogger, _ := zap.NewProduction()

	if err := config.Load(); err != nil {
		bootLogger.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(config.LogLevel(), config.LogFile())
	if err != nil {
		bootLogger.Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("plotweave starting",
		zap.String("version", buildconfig.Version()),
		zap.String("commit", buildconfig.Commit()))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var pool *pgxpool.Pool
	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		applied, err := store.Migrate(ctx, pool, config.MigrationsPath())
		if err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Strings("files", applied))
	}

	app := api.NewApp(pool, logger)
	app.Start(ctx)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.Bool("storage", pool != nil))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
