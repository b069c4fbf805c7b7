package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/domain/valueobject"
	"github.com/ruudy-sib/postpone/internal/metrics"
)

// Schedule plans the publication of sub.Item, queues the job that will
// execute it and records the pending publication. It returns the record ID.
//
// Rejected submissions leave no state behind and return an error wrapping
// domain.ErrNotScheduled.
func (s *PublishService) Schedule(ctx context.Context, sub *entity.Submission) (uint64, error) {
	if sub == nil || !sub.Item.HasActor() {
		return 0, s.reject(domain.ErrMissingActor, nil)
	}

	uid := sub.Item.UID
	uri := strings.TrimSpace(sub.URI)
	if uri == "" {
		uri = strings.TrimSpace(sub.Item.URI)
	}
	if uri == "" {
		return 0, s.reject(domain.ErrInvalidSubmission, errors.New("uri is required"))
	}

	logger := s.logger.With(
		zap.String("uri", uri),
		zap.Int64("uid", uid),
	)

	release := s.locks.lock(uid)
	defer release()

	exists, err := s.records.Exists(ctx, uri, uid)
	if err != nil {
		return 0, fmt.Errorf("checking pending publication: %w", err)
	}
	if exists {
		logger.Info("publication already pending")
		return 0, s.reject(domain.ErrDuplicateSubmission, nil)
	}

	planned, err := s.plan(ctx, uid, sub.Delayed)
	if err != nil {
		return 0, err
	}

	params := sub.Parameters()
	params.URI = uri
	args, err := entity.EncodeParameters(params)
	if err != nil {
		return 0, s.reject(domain.ErrInvalidSubmission, err)
	}

	handle, err := s.queue.Submit(ctx, &entity.Job{
		Command:    domain.CommandDelayedPublish,
		Priority:   domain.PriorityHigh,
		NotBefore:  planned.Time(),
		MaxRetries: s.opts.MaxRetries,
		BaseDelay:  s.opts.RetryBaseDelay,
		Args:       args,
	})
	if err != nil {
		logger.Warn("job queue rejected submission", zap.Error(err))
		return 0, s.reject(domain.ErrQueueRejected, err)
	}

	// Explicit times advance the watermark too, so later automatic posts
	// never land before them.
	watermark, err := s.config.Raise(ctx, uid, domain.ConfigNamespace, domain.KeyLastPublish, planned.Unix())
	if err != nil {
		logger.Error("failed to advance publish watermark", zap.Error(err))
		s.discardJob(ctx, handle, logger)
		return 0, s.reject(domain.ErrNotScheduled, fmt.Errorf("advancing publish watermark: %w", err))
	}

	record := &entity.DelayedRecord{
		URI:       uri,
		UID:       uid,
		Delayed:   planned.Time(),
		JobHandle: handle,
	}
	inserted, err := s.records.Insert(ctx, record)
	if err != nil {
		s.discardJob(ctx, handle, logger)
		return 0, s.reject(domain.ErrNotScheduled, fmt.Errorf("storing delayed record: %w", err))
	}
	if !inserted {
		// A concurrent submission won; its record and job are authoritative.
		s.discardJob(ctx, handle, logger)
		return 0, s.reject(domain.ErrDuplicateSubmission, nil)
	}

	metrics.ScheduledTotal.Inc()
	metrics.PlannedDelaySeconds.Observe(planned.Time().Sub(s.opts.Now()).Seconds())

	logger.Info("publication scheduled",
		zap.Uint64("record_id", record.ID),
		zap.String("job", handle),
		zap.String("delayed", planned.String()),
		zap.Int64("watermark", watermark),
	)

	return record.ID, nil
}

// plan computes the publish time. An explicit time is trusted as is;
// otherwise the actor's minimum posting interval is applied on top of the
// last planned publication, and the result is never in the past.
func (s *PublishService) plan(ctx context.Context, uid int64, explicit string) (valueobject.DelayedTime, error) {
	if strings.TrimSpace(explicit) != "" {
		planned, err := valueobject.ParseDelayedTime(explicit)
		if err != nil {
			return valueobject.DelayedTime{}, s.reject(domain.ErrInvalidSubmission, err)
		}
		return planned, nil
	}

	interval, err := s.postingInterval(ctx, uid)
	if err != nil {
		return valueobject.DelayedTime{}, err
	}

	last, err := s.config.Get(ctx, uid, domain.ConfigNamespace, domain.KeyLastPublish, 0)
	if err != nil {
		return valueobject.DelayedTime{}, fmt.Errorf("reading publish watermark: %w", err)
	}

	next := time.Unix(last, 0).Add(interval)
	if now := s.opts.Now(); next.Before(now) {
		next = now
	}
	return valueobject.NewDelayedTime(next), nil
}

func (s *PublishService) postingInterval(ctx context.Context, uid int64) (time.Duration, error) {
	minutes, err := s.config.Get(ctx, uid, domain.ConfigNamespace, domain.KeyMinimumPostingInterval, -1)
	if err != nil {
		return 0, fmt.Errorf("reading posting interval: %w", err)
	}
	if minutes < 0 {
		return s.opts.MinimumPostingInterval, nil
	}
	return time.Duration(minutes) * time.Minute, nil
}

func (s *PublishService) discardJob(ctx context.Context, handle string, logger *zap.Logger) {
	if err := s.queue.Remove(ctx, handle); err != nil {
		logger.Error("failed to discard untracked job",
			zap.String("job", handle),
			zap.Error(err),
		)
	}
}

// reject records the rejection and returns an error wrapping
// domain.ErrNotScheduled, the reason and the optional cause.
func (s *PublishService) reject(reason, cause error) error {
	metrics.RejectedTotal.WithLabelValues(rejectionLabel(reason)).Inc()

	err := reason
	if !errors.Is(reason, domain.ErrNotScheduled) {
		err = fmt.Errorf("%w: %w", domain.ErrNotScheduled, reason)
	}
	if cause != nil {
		err = fmt.Errorf("%w: %w", err, cause)
	}
	return err
}

func rejectionLabel(reason error) string {
	switch {
	case errors.Is(reason, domain.ErrMissingActor):
		return "missing_actor"
	case errors.Is(reason, domain.ErrInvalidSubmission):
		return "invalid"
	case errors.Is(reason, domain.ErrDuplicateSubmission):
		return "duplicate"
	case errors.Is(reason, domain.ErrQueueRejected):
		return "queue"
	default:
		return "storage"
	}
}
