package main

import (
	"context"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httphandler "github.com/ruudy-sib/postpone/internal/adapter/primary/http"
	"github.com/ruudy-sib/postpone/internal/adapter/primary/worker"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/kafkaproducer"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/legacysubmit"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/redisstore"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/sqlstore"
	"github.com/ruudy-sib/postpone/internal/config"
	"github.com/ruudy-sib/postpone/internal/domain/service"
	"github.com/ruudy-sib/postpone/internal/port/primary"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// healthCheckResult contributes a checker to the "health" value group.
type healthCheckResult struct {
	dig.Out

	Check secondary.HealthChecker `group:"health"`
}

type healthChecksParams struct {
	dig.In

	Checks []secondary.HealthChecker `group:"health"`
}

type serviceParams struct {
	dig.In

	Config   *config.Config
	Logger   *zap.Logger
	Queue    *redisstore.JobQueue
	Actors   *redisstore.ActorConfig
	Records  *sqlstore.DelayedRecordStore
	Content  *sqlstore.ContentStore
	Media    *sqlstore.MediaStore
	Legacy   *legacysubmit.Submitter
	Notifier secondary.PublicationNotifier
}

func buildContainer(ctx context.Context) (*dig.Container, error) {
	c := dig.New()

	// --- Configuration ---
	if err := c.Provide(config.New); err != nil {
		return nil, err
	}

	// --- Logger ---
	if err := c.Provide(newLogger); err != nil {
		return nil, err
	}

	// --- Secondary Adapters (infrastructure) ---

	// Redis client
	if err := c.Provide(func(cfg *config.Config, logger *zap.Logger) (goredis.UniversalClient, error) {
		return redisstore.NewClient(ctx, cfg, logger)
	}); err != nil {
		return nil, err
	}

	// Job queue and per-actor configuration
	if err := c.Provide(func(client goredis.UniversalClient, cfg *config.Config, logger *zap.Logger) *redisstore.JobQueue {
		return redisstore.NewJobQueue(client, cfg.RedisKeyPrefix, cfg.QueueMaxPending, logger)
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(func(client goredis.UniversalClient, cfg *config.Config) *redisstore.ActorConfig {
		return redisstore.NewActorConfig(client, cfg.RedisKeyPrefix)
	}); err != nil {
		return nil, err
	}

	// Database and the stores on top of it
	if err := c.Provide(func(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
		return sqlstore.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, logger)
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(sqlstore.NewDelayedRecordStore); err != nil {
		return nil, err
	}
	if err := c.Provide(sqlstore.NewContentStore); err != nil {
		return nil, err
	}
	if err := c.Provide(sqlstore.NewMediaStore); err != nil {
		return nil, err
	}

	// Health checks
	if err := c.Provide(func(client goredis.UniversalClient) healthCheckResult {
		return healthCheckResult{Check: redisstore.NewHealthCheck(client)}
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(func(db *gorm.DB) healthCheckResult {
		return healthCheckResult{Check: sqlstore.NewHealthCheck(db)}
	}); err != nil {
		return nil, err
	}
	if err := c.Provide(func(p healthChecksParams) []secondary.HealthChecker {
		return p.Checks
	}); err != nil {
		return nil, err
	}

	// Legacy submission endpoint and publication events
	if err := c.Provide(legacysubmit.NewSubmitter); err != nil {
		return nil, err
	}
	if err := c.Provide(kafkaproducer.NewNotifier); err != nil {
		return nil, err
	}

	// --- Domain Services ---

	if err := c.Provide(func(p serviceParams) *service.PublishService {
		opts := service.DefaultOptions()
		opts.MinimumPostingInterval = p.Config.MinimumPostingInterval
		opts.MaxRetries = p.Config.MaxRetries
		opts.RetryBaseDelay = p.Config.RetryBaseDelay
		opts.BatchSize = p.Config.BatchSize

		return service.NewPublishService(service.Dependencies{
			Queue:    p.Queue,
			Records:  p.Records,
			Config:   p.Actors,
			Content:  p.Content,
			Tags:     p.Content,
			Media:    p.Media,
			Legacy:   p.Legacy,
			Notifier: p.Notifier,
		}, opts, p.Logger)
	}); err != nil {
		return nil, err
	}

	// Bind concrete PublishService to the primary port interface
	if err := c.Provide(func(s *service.PublishService) primary.PublishService {
		return s
	}); err != nil {
		return nil, err
	}

	// --- Primary Adapters ---

	// HTTP router
	if err := c.Provide(func(svc primary.PublishService, checks []secondary.HealthChecker, logger *zap.Logger) http.Handler {
		return httphandler.NewRouter(svc, checks, logger)
	}); err != nil {
		return nil, err
	}

	// Worker
	if err := c.Provide(func(svc primary.PublishService, cfg *config.Config, logger *zap.Logger) *worker.Worker {
		return worker.NewWorker(svc, cfg.PollInterval, logger)
	}); err != nil {
		return nil, err
	}

	return c, nil
}
