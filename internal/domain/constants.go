package domain

import "time"

const (
	// CommandDelayedPublish is the job command name under which delayed
	// publications are queued. Stored jobs with any other command are not
	// resolved as publications.
	CommandDelayedPublish = "DelayedPublish"

	// PriorityHigh is the queue priority of delayed publications.
	// Lower values are picked first.
	PriorityHigh = 20

	// ConfigNamespace is the actor config namespace holding scheduler state.
	ConfigNamespace = "system"

	// KeyLastPublish holds the actor's last planned publish time (unix seconds).
	KeyLastPublish = "last_publish"

	// KeyMinimumPostingInterval is an optional per-actor override of the
	// minimum posting interval, in minutes.
	KeyMinimumPostingInterval = "minimum_posting_interval"

	// DelayedTimeLayout is the fixed textual format of planned times.
	DelayedTimeLayout = "2006-01-02 15:04:05"

	// ParametersVersion is the current layout version of stored job arguments.
	ParametersVersion = 2

	// LegacyParametersVersion marks the positional argument layout.
	LegacyParametersVersion = 1

	// RedisKeyPrefix prefixes every key the service writes to Redis.
	RedisKeyPrefix = "postpone:"

	// DefaultPollInterval is the interval between worker polling cycles.
	DefaultPollInterval = 1 * time.Second

	// DefaultBatchSize is the maximum number of jobs fetched per poll cycle.
	DefaultBatchSize = 10

	// DefaultMaxRetries is the number of times a failed publication is retried.
	DefaultMaxRetries = 3

	// DefaultRetryBaseDelay is the base delay in seconds for exponential backoff.
	DefaultRetryBaseDelay = 60

	// MaxRetryLimit caps the maximum number of retries allowed.
	MaxRetryLimit = 100
)
