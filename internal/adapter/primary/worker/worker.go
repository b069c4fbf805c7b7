package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/port/primary"
)

// Worker polls the job queue at regular intervals and publishes the
// delayed items that have become due. It respects context cancellation
// for graceful shutdown.
type Worker struct {
	service      primary.PublishService
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewWorker creates a Worker that processes due jobs at the given interval.
func NewWorker(
	service primary.PublishService,
	pollInterval time.Duration,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		service:      service,
		pollInterval: pollInterval,
		logger:       logger.Named("worker"),
	}
}

// Run starts the polling loop. The first cycle runs immediately so that jobs
// which fell due while the process was down are not held back by a full
// interval. Run blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started",
		zap.Duration("poll_interval", w.pollInterval),
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Worker) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.service.ProcessDueJobs(ctx); err != nil {
		// Log but do not return, the worker keeps running.
		w.logger.Error("error processing due jobs", zap.Error(err))
	}
}
