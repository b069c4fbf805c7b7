package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// Dependencies groups the secondary ports the PublishService drives.
type Dependencies struct {
	Queue    secondary.JobQueue
	Records  secondary.DelayedRecordStore
	Config   secondary.ActorConfig
	Content  secondary.ContentStore
	Tags     secondary.TagStore
	Media    secondary.MediaStore
	Legacy   secondary.LegacySubmitter
	Notifier secondary.PublicationNotifier
}

// Options tunes planning and job execution.
type Options struct {
	// MinimumPostingInterval applies to actors without their own setting.
	// Zero disables the limit.
	MinimumPostingInterval time.Duration

	MaxRetries     int
	RetryBaseDelay int
	BatchSize      int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxRetries:     domain.DefaultMaxRetries,
		RetryBaseDelay: domain.DefaultRetryBaseDelay,
		BatchSize:      domain.DefaultBatchSize,
		Now:            time.Now,
	}
}

// PublishService plans delayed publications, tracks them until they are
// executed and resolves queued jobs back into stored content.
type PublishService struct {
	queue    secondary.JobQueue
	records  secondary.DelayedRecordStore
	config   secondary.ActorConfig
	content  secondary.ContentStore
	tags     secondary.TagStore
	media    secondary.MediaStore
	legacy   secondary.LegacySubmitter
	notifier secondary.PublicationNotifier

	opts   Options
	locks  *actorLocks
	logger *zap.Logger
}

// NewPublishService creates a PublishService with its dependencies injected.
func NewPublishService(deps Dependencies, opts Options, logger *zap.Logger) *PublishService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = domain.DefaultBatchSize
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = domain.DefaultRetryBaseDelay
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.MaxRetries > domain.MaxRetryLimit {
		opts.MaxRetries = domain.MaxRetryLimit
	}

	return &PublishService{
		queue:    deps.Queue,
		records:  deps.Records,
		config:   deps.Config,
		content:  deps.Content,
		tags:     deps.Tags,
		media:    deps.Media,
		legacy:   deps.Legacy,
		notifier: deps.Notifier,
		opts:     opts,
		locks:    newActorLocks(),
		logger:   logger.Named("publish-service"),
	}
}
