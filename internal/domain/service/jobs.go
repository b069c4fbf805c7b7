package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/metrics"
)

// ProcessDueJobs fetches due jobs and executes each one.
// Failed publications are retried with exponential backoff.
func (s *PublishService) ProcessDueJobs(ctx context.Context) error {
	jobs, err := s.queue.FetchDue(ctx, s.opts.BatchSize)
	if err != nil {
		return fmt.Errorf("fetching due jobs: %w", err)
	}

	for _, job := range jobs {
		s.processJob(ctx, job)
	}

	s.samplePending(ctx)
	return nil
}

func (s *PublishService) samplePending(ctx context.Context) {
	pending, err := s.queue.Pending(ctx)
	if err != nil {
		s.logger.Warn("failed to sample queue depth", zap.Error(err))
		return
	}
	metrics.QueuePending.Set(float64(pending))
}

func (s *PublishService) processJob(ctx context.Context, job *entity.Job) {
	logger := s.logger.With(
		zap.String("job", job.Handle),
		zap.String("command", job.Command),
		zap.Int("attempt", job.Attempt),
	)

	if job.Command != domain.CommandDelayedPublish {
		logger.Warn("unknown job command, dropping job")
		s.finishJob(ctx, job, "dropped", logger)
		return
	}

	params, err := entity.DecodeParameters(job.Args)
	if err != nil {
		logger.Error("stored parameters failed to decode, dropping job", zap.Error(err))
		s.finishJob(ctx, job, "dropped", logger)
		return
	}
	params.Normalize()

	id, err := s.Publish(ctx, params)
	if err != nil {
		logger.Warn("publication failed", zap.Error(err))
		s.handleFailure(ctx, job, logger)
		return
	}

	logger.Info("job completed", zap.Int64("content_id", id))
	s.finishJob(ctx, job, "done", logger)
}

func (s *PublishService) handleFailure(ctx context.Context, job *entity.Job, logger *zap.Logger) {
	job.IncrementAttempt()

	if !job.HasRetriesLeft() {
		logger.Error("max retries exceeded, dropping job",
			zap.Int("max_retries", job.MaxRetries),
			zap.Int("attempts", job.Attempt),
		)
		s.finishJob(ctx, job, "dropped", logger)
		return
	}

	delay := job.NextRetryDelay()
	logger.Info("scheduling retry",
		zap.Duration("delay", delay),
		zap.Int("next_attempt", job.Attempt),
	)

	if err := s.queue.Retry(ctx, job, delay); err != nil {
		logger.Error("failed to reschedule job", zap.Error(err))
		return
	}
	metrics.JobsTotal.WithLabelValues(job.Command, "retried").Inc()
}

func (s *PublishService) finishJob(ctx context.Context, job *entity.Job, outcome string, logger *zap.Logger) {
	metrics.JobsTotal.WithLabelValues(job.Command, outcome).Inc()
	if err := s.queue.Remove(ctx, job.Handle); err != nil && !errors.Is(err, domain.ErrJobNotFound) {
		logger.Error("failed to remove finished job", zap.Error(err))
	}
}
