package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ruudy-sib/postpone/internal/domain"
)

// Config holds all application configuration values.
type Config struct {
	// HTTP server
	HTTPAddr string

	// Redis
	RedisMode          string // "standalone" (default), "sentinel", "cluster"
	RedisAddr          string // standalone: host:port
	RedisPassword      string
	RedisDB            int
	RedisMasterName    string   // sentinel: master name
	RedisSentinelAddrs []string // sentinel: sentinel node addresses
	RedisClusterAddrs  []string // cluster: cluster node addresses
	RedisKeyPrefix     string

	// Database
	DatabaseDriver string // "postgres" (default) or "sqlite"
	DatabaseDSN    string

	// Kafka, publication events are disabled without brokers
	KafkaBrokers      []string
	KafkaPublishTopic string

	// Legacy synchronous submission endpoint
	LegacySubmitURL     string
	LegacySubmitToken   string
	LegacySubmitTimeout time.Duration
	LegacySubmitRate    int // requests per second, 0 = unlimited

	// Planning
	MinimumPostingInterval time.Duration

	// Worker and queue
	PollInterval    time.Duration
	BatchSize       int
	MaxRetries      int
	RetryBaseDelay  int // seconds
	QueueMaxPending int64

	// Application
	Environment string
	LogLevel    string
}

// New creates a Config populated from environment variables with sensible defaults.
func New() *Config {
	cfg := &Config{
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		RedisMode:              getEnv("REDIS_MODE", "standalone"),
		RedisAddr:              getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		RedisKeyPrefix:         getEnv("REDIS_KEY_PREFIX", domain.RedisKeyPrefix),
		DatabaseDriver:         getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:            getEnv("DATABASE_DSN", "host=localhost user=postgres dbname=postpone sslmode=disable"),
		KafkaPublishTopic:      getEnv("KAFKA_PUBLISH_TOPIC", "postpone.published"),
		LegacySubmitURL:        getEnv("LEGACY_SUBMIT_URL", ""),
		LegacySubmitToken:      getEnv("LEGACY_SUBMIT_TOKEN", ""),
		LegacySubmitTimeout:    getEnvDuration("LEGACY_SUBMIT_TIMEOUT", 30*time.Second),
		LegacySubmitRate:       getEnvInt("LEGACY_SUBMIT_RATE", 0),
		MinimumPostingInterval: time.Duration(getEnvInt("MINIMUM_POSTING_INTERVAL", 0)) * time.Minute,
		PollInterval:           getEnvDuration("POLL_INTERVAL", domain.DefaultPollInterval),
		BatchSize:              getEnvInt("BATCH_SIZE", domain.DefaultBatchSize),
		MaxRetries:             getEnvInt("JOB_MAX_RETRIES", domain.DefaultMaxRetries),
		RetryBaseDelay:         getEnvInt("JOB_RETRY_BASE_DELAY", domain.DefaultRetryBaseDelay),
		QueueMaxPending:        int64(getEnvInt("QUEUE_MAX_PENDING", 0)),
		Environment:            getEnv("ENVIRONMENT", "local"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}

	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	if v := getEnv("REDIS_MASTER_NAME", ""); v != "" {
		cfg.RedisMasterName = v
	}
	if v := getEnv("REDIS_SENTINEL_ADDRS", ""); v != "" {
		cfg.RedisSentinelAddrs = strings.Split(v, ",")
	}
	if v := getEnv("REDIS_CLUSTER_ADDRS", ""); v != "" {
		cfg.RedisClusterAddrs = strings.Split(v, ",")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(getEnv(key, "")))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(getEnv(key, "")))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
