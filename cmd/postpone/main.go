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

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ruudy-sib/postpone/internal/adapter/primary/worker"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/legacysubmit"
	"github.com/ruudy-sib/postpone/internal/config"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

const appName = "postpone"

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancellation for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the dependency injection container.
	c, err := buildContainer(ctx)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}

	// Invoke the application, resolving all dependencies and starting services.
	return c.Invoke(func(
		router http.Handler,
		w *worker.Worker,
		cfg *config.Config,
		logger *zap.Logger,
		redisClient goredis.UniversalClient,
		db *gorm.DB,
		legacy *legacysubmit.Submitter,
		notifier secondary.PublicationNotifier,
	) {
		defer func() {
			// Clean up resources on shutdown.
			if err := notifier.Close(); err != nil {
				logger.Error("error closing kafka notifier", zap.Error(err))
			}
			_ = legacy.Close()
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					logger.Error("error closing database", zap.Error(err))
				}
			}
			if err := redisClient.Close(); err != nil {
				logger.Error("error closing redis", zap.Error(err))
			}
			_ = logger.Sync()
		}()

		logger.Info("starting application",
			zap.String("app", appName),
			zap.String("version", version),
			zap.String("environment", cfg.Environment),
			zap.String("http_addr", cfg.HTTPAddr),
			zap.Duration("minimum_posting_interval", cfg.MinimumPostingInterval),
		)

		// Start the background worker.
		workerCtx, workerCancel := context.WithCancel(ctx)
		defer workerCancel()

		errCh := make(chan error, 2)
		go func() {
			errCh <- w.Run(workerCtx)
		}()

		// Start the HTTP server.
		server := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			if srvErr := server.ListenAndServe(); srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", srvErr)
			}
		}()

		// Wait for shutdown signal.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		case srvErr := <-errCh:
			if srvErr != nil && !errors.Is(srvErr, context.Canceled) {
				logger.Error("service error", zap.Error(srvErr))
			}
		}

		// Graceful shutdown with timeout.
		logger.Info("shutting down gracefully")
		cancel()
		workerCancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", zap.Error(err))
		}

		logger.Info("shutdown complete")
	})
}
