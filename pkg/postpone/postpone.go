package postpone

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ruudy-sib/postpone/internal/adapter/primary/worker"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/kafkaproducer"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/legacysubmit"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/redisstore"
	"github.com/ruudy-sib/postpone/internal/adapter/secondary/sqlstore"
	"github.com/ruudy-sib/postpone/internal/config"
	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/domain/service"
	"github.com/ruudy-sib/postpone/internal/port/primary"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// Errors returned by Schedule. Every rejection wraps ErrNotScheduled.
var (
	ErrNotScheduled = domain.ErrNotScheduled
	ErrDuplicate    = domain.ErrDuplicateSubmission
	ErrMissingActor = domain.ErrMissingActor
	ErrQueueFull    = domain.ErrQueueFull
)

// Postpone is the main entry point for the delayed publication scheduler.
// It can be embedded in other Go applications.
type Postpone struct {
	service     primary.PublishService
	worker      *worker.Worker
	notifier    secondary.PublicationNotifier
	legacy      *legacysubmit.Submitter
	redisClient goredis.UniversalClient
	db          *gorm.DB
	logger      *zap.Logger
	config      *Config
}

// Config holds configuration for Postpone.
type Config struct {
	// Redis mode: "standalone" (default), "sentinel", "cluster"
	RedisMode string

	// Standalone Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Sentinel Redis (RedisMode = "sentinel")
	RedisMasterName    string
	RedisSentinelAddrs []string

	// Cluster Redis (RedisMode = "cluster")
	RedisClusterAddrs []string

	// RedisKeyPrefix namespaces every key written to Redis.
	RedisKeyPrefix string

	// Database: "postgres" (default) or "sqlite"
	DatabaseDriver string
	DatabaseDSN    string

	// Kafka brokers for publication events; empty disables them.
	KafkaBrokers      []string
	KafkaPublishTopic string

	// Endpoint used for unprepared items.
	LegacySubmitURL   string
	LegacySubmitToken string

	// MinimumPostingInterval between two publications of the same actor.
	MinimumPostingInterval time.Duration

	// Worker configuration
	PollInterval    time.Duration
	QueueMaxPending int64

	// Logger (if nil, a default logger will be created)
	Logger *zap.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RedisAddr:         "localhost:6379",
		RedisKeyPrefix:    domain.RedisKeyPrefix,
		DatabaseDriver:    "postgres",
		DatabaseDSN:       "host=localhost user=postgres dbname=postpone sslmode=disable",
		KafkaPublishTopic: "postpone.published",
		PollInterval:      domain.DefaultPollInterval,
	}
}

// New creates a new Postpone instance with the given configuration.
func New(cfg *Config) (*Postpone, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Create logger if not provided
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = domain.DefaultPollInterval
	}

	// Convert to internal config format
	internalCfg := &config.Config{
		RedisMode:          cfg.RedisMode,
		RedisAddr:          cfg.RedisAddr,
		RedisPassword:      cfg.RedisPassword,
		RedisDB:            cfg.RedisDB,
		RedisMasterName:    cfg.RedisMasterName,
		RedisSentinelAddrs: cfg.RedisSentinelAddrs,
		RedisClusterAddrs:  cfg.RedisClusterAddrs,
		KafkaBrokers:       cfg.KafkaBrokers,
		KafkaPublishTopic:  cfg.KafkaPublishTopic,
		LegacySubmitURL:    cfg.LegacySubmitURL,
		LegacySubmitToken:  cfg.LegacySubmitToken,
	}

	redisClient, err := redisstore.NewClient(context.Background(), internalCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating redis client: %w", err)
	}

	db, err := sqlstore.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	content := sqlstore.NewContentStore(db)
	legacy := legacysubmit.NewSubmitter(internalCfg, logger)
	notifier := kafkaproducer.NewNotifier(internalCfg, logger)

	opts := service.DefaultOptions()
	opts.MinimumPostingInterval = cfg.MinimumPostingInterval

	svc := service.NewPublishService(service.Dependencies{
		Queue:    redisstore.NewJobQueue(redisClient, cfg.RedisKeyPrefix, cfg.QueueMaxPending, logger),
		Records:  sqlstore.NewDelayedRecordStore(db),
		Config:   redisstore.NewActorConfig(redisClient, cfg.RedisKeyPrefix),
		Content:  content,
		Tags:     content,
		Media:    sqlstore.NewMediaStore(db),
		Legacy:   legacy,
		Notifier: notifier,
	}, opts, logger)

	return &Postpone{
		service:     svc,
		worker:      worker.NewWorker(svc, pollInterval, logger),
		notifier:    notifier,
		legacy:      legacy,
		redisClient: redisClient,
		db:          db,
		logger:      logger,
		config:      cfg,
	}, nil
}

// Start begins the publication worker in the background.
// It returns immediately and the worker runs in a separate goroutine.
func (p *Postpone) Start(ctx context.Context) error {
	p.logger.Info("starting postpone scheduler")
	go p.worker.Run(ctx)
	return nil
}

// Schedule plans the publication of an item and returns the ID of its
// pending record.
func (p *Postpone) Schedule(ctx context.Context, sub *Submission) (uint64, error) {
	return p.service.Schedule(ctx, sub.toDomain())
}

// Pending reports whether a publication of uri by uid is still waiting.
func (p *Postpone) Pending(ctx context.Context, uri string, uid int64) (bool, error) {
	return p.service.Pending(ctx, uri, uid)
}

// Close gracefully shuts down Postpone and releases resources.
func (p *Postpone) Close() error {
	p.logger.Info("shutting down postpone scheduler")

	var errs []error

	if err := p.notifier.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing notifier: %w", err))
	}
	_ = p.legacy.Close()

	if sqlDB, err := p.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}

	if err := p.redisClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing redis client: %w", err))
	}

	return errors.Join(errs...)
}

// Submission describes an item to publish later.
type Submission struct {
	// URI identifies the content; defaults to Item.URI.
	URI string

	// Item is the content draft. Item.UID is required.
	Item Item

	// Notify announces the stored content.
	Notify bool

	// Unprepared routes the item through the legacy submission endpoint.
	Unprepared bool

	// Delayed is an explicit publish time; zero lets the scheduler decide.
	Delayed time.Time

	Tags        []string
	Attachments []Attachment
}

// Item is a content draft.
type Item struct {
	UID     int64
	URI     string
	ExtID   string
	Title   string
	Body    string
	Network string
	Private bool
}

// Attachment is a media file linked to an item.
type Attachment struct {
	URL         string
	MimeType    string
	Size        int64
	Description string
}

// toDomain converts a public Submission to an internal domain entity.
func (s *Submission) toDomain() *entity.Submission {
	if s == nil {
		return nil
	}
	sub := &entity.Submission{
		URI:        s.URI,
		Notify:     s.Notify,
		Unprepared: s.Unprepared,
		Tags:       s.Tags,
		Item: &entity.Item{
			UID:     s.Item.UID,
			URI:     s.Item.URI,
			ExtID:   s.Item.ExtID,
			Title:   s.Item.Title,
			Body:    s.Item.Body,
			Network: s.Item.Network,
			Private: s.Item.Private,
		},
	}
	if !s.Delayed.IsZero() {
		sub.Delayed = s.Delayed.UTC().Format(domain.DelayedTimeLayout)
	}
	for _, a := range s.Attachments {
		sub.Attachments = append(sub.Attachments, entity.Attachment(a))
	}
	return sub
}
