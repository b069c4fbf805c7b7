package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// jobDTO is the Redis-specific representation of a job.
// It translates between domain entities and JSON stored in Redis.
type jobDTO struct {
	Handle     string `json:"handle"`
	Command    string `json:"command"`
	Priority   int    `json:"priority"`
	NotBefore  int64  `json:"not_before"`
	Attempt    int    `json:"attempt"`
	MaxRetries int    `json:"max_retries"`
	BaseDelay  int    `json:"base_delay"`
	Args       string `json:"args"`
	CreatedAt  int64  `json:"created_at"`
}

func toDTO(job *entity.Job, now time.Time) jobDTO {
	return jobDTO{
		Handle:     job.Handle,
		Command:    job.Command,
		Priority:   job.Priority,
		NotBefore:  job.NotBefore.Unix(),
		Attempt:    job.Attempt,
		MaxRetries: job.MaxRetries,
		BaseDelay:  job.BaseDelay,
		Args:       string(job.Args),
		CreatedAt:  now.Unix(),
	}
}

func toEntity(dto jobDTO) *entity.Job {
	return &entity.Job{
		Handle:     dto.Handle,
		Command:    dto.Command,
		Priority:   dto.Priority,
		NotBefore:  time.Unix(dto.NotBefore, 0).UTC(),
		Attempt:    dto.Attempt,
		MaxRetries: dto.MaxRetries,
		BaseDelay:  dto.BaseDelay,
		Args:       []byte(dto.Args),
	}
}

// JobQueue implements secondary.JobQueue on Redis.
//
// Handles live in a sorted set scored by their NotBefore time (Unix seconds);
// the job itself is stored as JSON under its own key so that its arguments
// can be read back by handle while it waits. Both keys share the {jobs} hash
// tag and therefore the same cluster slot.
type JobQueue struct {
	client     redis.UniversalClient
	dueKey     string
	dataPrefix string
	maxPending int64
	now        func() time.Time
	logger     *zap.Logger
}

// NewJobQueue creates a Redis-backed job queue. A positive maxPending bounds
// the number of waiting jobs; further submissions fail with domain.ErrQueueFull.
func NewJobQueue(client redis.UniversalClient, prefix string, maxPending int64, logger *zap.Logger) *JobQueue {
	if prefix == "" {
		prefix = domain.RedisKeyPrefix
	}
	return &JobQueue{
		client:     client,
		dueKey:     prefix + "{jobs}:due",
		dataPrefix: prefix + "{jobs}:data:",
		maxPending: maxPending,
		now:        time.Now,
		logger:     logger.Named("redis-job-queue"),
	}
}

var _ secondary.JobQueue = (*JobQueue)(nil)

func (q *JobQueue) dataKey(handle string) string {
	return q.dataPrefix + handle
}

// Submit stores the job and adds its handle to the due set.
func (q *JobQueue) Submit(ctx context.Context, job *entity.Job) (string, error) {
	if job == nil || job.Command == "" {
		return "", fmt.Errorf("submitting job: missing command")
	}

	if q.maxPending > 0 {
		pending, err := q.client.ZCard(ctx, q.dueKey).Result()
		if err != nil {
			return "", fmt.Errorf("counting pending jobs: %w", err)
		}
		if pending >= q.maxPending {
			return "", fmt.Errorf("%w: %d jobs pending", domain.ErrQueueFull, pending)
		}
	}

	if job.Handle == "" {
		job.Handle = uuid.NewString()
	}

	if err := q.store(ctx, job); err != nil {
		return "", fmt.Errorf("submitting job: %w", err)
	}

	q.logger.Debug("job submitted",
		zap.String("handle", job.Handle),
		zap.String("command", job.Command),
		zap.Time("not_before", job.NotBefore),
	)
	return job.Handle, nil
}

func (q *JobQueue) store(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(toDTO(job, q.now()))
	if err != nil {
		return fmt.Errorf("marshaling job: %w", err)
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, q.dataKey(job.Handle), data, 0)
		pipe.ZAdd(ctx, q.dueKey, redis.Z{
			Score:  float64(job.NotBefore.Unix()),
			Member: job.Handle,
		})
		return nil
	})
	return err
}

func (q *JobQueue) load(ctx context.Context, handle string) (*jobDTO, error) {
	raw, err := q.client.Get(ctx, q.dataKey(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading job %s: %w", handle, err)
	}

	var dto jobDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decoding job %s: %w", handle, err)
	}
	return &dto, nil
}

// Arguments returns the stored arguments of a job submitted under command.
func (q *JobQueue) Arguments(ctx context.Context, handle, command string) ([]byte, error) {
	dto, err := q.load(ctx, handle)
	if err != nil {
		return nil, err
	}
	if dto.Command != command {
		return nil, fmt.Errorf("%w: job %s has command %q", domain.ErrJobNotFound, handle, dto.Command)
	}
	return []byte(dto.Args), nil
}

// FetchDue claims jobs whose score (NotBefore) is <= now. A handle is claimed
// by removing it from the due set, so concurrent workers never receive the
// same job. The stored job stays until Remove is called.
func (q *JobQueue) FetchDue(ctx context.Context, limit int) ([]*entity.Job, error) {
	now := strconv.FormatInt(q.now().Unix(), 10)

	results, err := q.client.ZRangeByScoreWithScores(ctx, q.dueKey, &redis.ZRangeBy{
		Min:    "-inf",
		Max:    now,
		Offset: 0,
		Count:  int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("fetching due jobs from redis: %w", err)
	}

	jobs := make([]*entity.Job, 0, len(results))
	for _, z := range results {
		handle, ok := z.Member.(string)
		if !ok {
			q.logger.Warn("unexpected member type in sorted set")
			continue
		}

		claimed, err := q.client.ZRem(ctx, q.dueKey, handle).Result()
		if err != nil {
			q.logger.Error("failed to claim job",
				zap.Error(err),
				zap.String("handle", handle),
			)
			continue
		}
		if claimed == 0 {
			continue
		}

		dto, err := q.load(ctx, handle)
		if err != nil {
			q.logger.Warn("claimed job has no readable data",
				zap.Error(err),
				zap.String("handle", handle),
			)
			continue
		}

		jobs = append(jobs, toEntity(*dto))
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		if !jobs[i].NotBefore.Equal(jobs[j].NotBefore) {
			return jobs[i].NotBefore.Before(jobs[j].NotBefore)
		}
		return jobs[i].Priority < jobs[j].Priority
	})

	return jobs, nil
}

// Retry stores the job's new state and makes it due again after delay.
func (q *JobQueue) Retry(ctx context.Context, job *entity.Job, delay time.Duration) error {
	job.NotBefore = q.now().Add(delay).UTC().Truncate(time.Second)
	if err := q.store(ctx, job); err != nil {
		return fmt.Errorf("rescheduling job %s: %w", job.Handle, err)
	}
	return nil
}

// Remove deletes the job and its handle from the due set.
func (q *JobQueue) Remove(ctx context.Context, handle string) error {
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, q.dueKey, handle)
		pipe.Del(ctx, q.dataKey(handle))
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing job %s: %w", handle, err)
	}
	return nil
}

// Pending returns the number of jobs waiting in the due set.
func (q *JobQueue) Pending(ctx context.Context) (int64, error) {
	n, err := q.client.ZCard(ctx, q.dueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("counting pending jobs: %w", err)
	}
	return n, nil
}
