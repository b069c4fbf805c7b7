package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/metrics"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

const (
	modePrepared   = "prepared"
	modeUnprepared = "unprepared"
)

// Pending reports whether a publication is pending for (uri, uid).
func (s *PublishService) Pending(ctx context.Context, uri string, uid int64) (bool, error) {
	return s.records.Exists(ctx, uri, uid)
}

// PendingByActor lists the pending records of an actor.
func (s *PublishService) PendingByActor(ctx context.Context, uid int64) ([]*entity.DelayedRecord, error) {
	return s.records.ListByActor(ctx, uid)
}

// Parameters resolves a record into the normalized parameters stored with
// its job. Any missing link (record, job, command or payload) yields an
// error wrapping domain.ErrParametersNotFound.
func (s *PublishService) Parameters(ctx context.Context, recordID uint64) (*entity.SubmissionParameters, error) {
	record, err := s.records.Get(ctx, recordID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrParametersNotFound, err)
		}
		return nil, fmt.Errorf("loading delayed record %d: %w", recordID, err)
	}
	if record.JobHandle == "" {
		return nil, fmt.Errorf("%w: record %d has no job", domain.ErrParametersNotFound, recordID)
	}

	args, err := s.queue.Arguments(ctx, record.JobHandle, domain.CommandDelayedPublish)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrParametersNotFound, err)
		}
		return nil, fmt.Errorf("loading job %q: %w", record.JobHandle, err)
	}

	params, err := entity.DecodeParameters(args)
	if err != nil {
		s.logger.Warn("stored parameters failed to decode",
			zap.Uint64("record_id", recordID),
			zap.String("job", record.JobHandle),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrParametersNotFound, err)
	}
	params.Normalize()
	if params.URI == "" {
		params.URI = record.URI
	}

	return params, nil
}

// Publish stores the content described by params, clears its pending record
// and returns the content ID. Parameters are expected to be normalized.
// Publish does not retry; a failed job is retried by the caller.
func (s *PublishService) Publish(ctx context.Context, params *entity.SubmissionParameters) (int64, error) {
	if params == nil {
		return 0, fmt.Errorf("%w: no parameters", domain.ErrPublishFailed)
	}

	item := params.Item
	if len(params.Attachments) > 0 {
		item.Attachments = params.Attachments
	}

	if params.Unprepared {
		return s.publishUnprepared(ctx, &item, params)
	}
	return s.publishPrepared(ctx, &item, params)
}

func (s *PublishService) publishUnprepared(ctx context.Context, item *entity.Item, params *entity.SubmissionParameters) (int64, error) {
	logger := s.logger.With(zap.Int64("uid", item.UID), zap.String("mode", modeUnprepared))

	id, err := s.legacy.Submit(ctx, entity.NewActorContext(item), item)
	if err != nil {
		metrics.PublishedTotal.WithLabelValues(modeUnprepared, "failed").Inc()
		return 0, fmt.Errorf("%w: legacy submission: %w", domain.ErrPublishFailed, err)
	}

	uri := params.URI
	if uri == "" {
		uri = item.ExtID
	}
	s.clearPending(ctx, uri, item.UID, logger)

	metrics.PublishedTotal.WithLabelValues(modeUnprepared, "stored").Inc()
	logger.Info("unprepared item submitted", zap.String("uri", uri), zap.Int64("content_id", id))

	return id, nil
}

func (s *PublishService) publishPrepared(ctx context.Context, item *entity.Item, params *entity.SubmissionParameters) (int64, error) {
	logger := s.logger.With(zap.Int64("uid", item.UID), zap.String("mode", modePrepared))

	id, err := s.content.Insert(ctx, item, params.Notify)
	if err != nil {
		metrics.PublishedTotal.WithLabelValues(modePrepared, "failed").Inc()
		return 0, fmt.Errorf("%w: storing item: %w", domain.ErrPublishFailed, err)
	}

	uri := params.URI
	if uri == "" {
		uri = item.URI
	}
	s.clearPending(ctx, uri, item.UID, logger)

	if id == 0 {
		metrics.PublishedTotal.WithLabelValues(modePrepared, "failed").Inc()
		return 0, fmt.Errorf("%w: content store returned no id for %q", domain.ErrPublishFailed, uri)
	}

	var uriID int64
	if len(params.Tags) > 0 || len(params.Attachments) > 0 || params.Notify {
		if uriID, err = s.content.URIID(ctx, id); err != nil {
			return id, fmt.Errorf("resolving uri id of content %d: %w", id, err)
		}
	}

	for _, tag := range params.Tags {
		if err := s.tags.Store(ctx, uriID, secondary.TagHashtag, tag); err != nil {
			return id, fmt.Errorf("storing hashtag %q: %w", tag, err)
		}
	}
	for _, attachment := range params.Attachments {
		if err := s.media.Insert(ctx, uriID, attachment); err != nil {
			return id, fmt.Errorf("storing attachment %q: %w", attachment.URL, err)
		}
	}

	if params.Notify {
		event := entity.PublishedEvent{
			ContentID:   id,
			URIID:       uriID,
			UID:         item.UID,
			URI:         uri,
			PublishedAt: s.opts.Now().UTC(),
		}
		if err := s.notifier.Notify(ctx, event); err != nil {
			logger.Warn("failed to announce publication", zap.Int64("content_id", id), zap.Error(err))
		}
	}

	metrics.PublishedTotal.WithLabelValues(modePrepared, "stored").Inc()
	logger.Info("item published",
		zap.String("uri", uri),
		zap.Int64("content_id", id),
		zap.Int("tags", len(params.Tags)),
		zap.Int("attachments", len(params.Attachments)),
	)

	return id, nil
}

// clearPending removes the pending record once the content has been handed
// over. Failures are logged; the record then only blocks resubmission.
func (s *PublishService) clearPending(ctx context.Context, uri string, uid int64, logger *zap.Logger) {
	if uri == "" {
		return
	}

	exists, err := s.records.Exists(ctx, uri, uid)
	if err != nil {
		logger.Error("failed to check pending record", zap.String("uri", uri), zap.Error(err))
		return
	}
	if !exists {
		return
	}

	if _, err := s.records.Delete(ctx, uri, uid); err != nil {
		logger.Error("failed to delete pending record", zap.String("uri", uri), zap.Error(err))
	}
}
