package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// raiseScript sets the field only when the new value is greater than the
// stored one and returns the value in effect.
var raiseScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
local value = tonumber(ARGV[2])
if current then
  local stored = tonumber(current)
  if stored and stored >= value then
    return current
  end
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return ARGV[2]
`)

// ActorConfig implements secondary.ActorConfig with one Redis hash per actor.
// Fields are named "<namespace>:<key>".
type ActorConfig struct {
	client redis.UniversalClient
	prefix string
}

// NewActorConfig creates a Redis-backed per-actor configuration store.
func NewActorConfig(client redis.UniversalClient, prefix string) *ActorConfig {
	if prefix == "" {
		prefix = domain.RedisKeyPrefix
	}
	return &ActorConfig{client: client, prefix: prefix}
}

var _ secondary.ActorConfig = (*ActorConfig)(nil)

func (c *ActorConfig) key(uid int64) string {
	return c.prefix + "pconfig:" + strconv.FormatInt(uid, 10)
}

func field(namespace, key string) string {
	return namespace + ":" + key
}

// Get returns the stored value or fallback when the field is not set.
func (c *ActorConfig) Get(ctx context.Context, uid int64, namespace, key string, fallback int64) (int64, error) {
	raw, err := c.client.HGet(ctx, c.key(uid), field(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("reading %s/%s for actor %d: %w", namespace, key, uid, err)
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("parsing %s/%s for actor %d: %w", namespace, key, uid, err)
	}
	return value, nil
}

// Set stores value unconditionally.
func (c *ActorConfig) Set(ctx context.Context, uid int64, namespace, key string, value int64) error {
	if err := c.client.HSet(ctx, c.key(uid), field(namespace, key), value).Err(); err != nil {
		return fmt.Errorf("writing %s/%s for actor %d: %w", namespace, key, uid, err)
	}
	return nil
}

// Raise stores value if it exceeds the current one, atomically.
func (c *ActorConfig) Raise(ctx context.Context, uid int64, namespace, key string, value int64) (int64, error) {
	raw, err := raiseScript.Run(ctx, c.client,
		[]string{c.key(uid)},
		field(namespace, key), strconv.FormatInt(value, 10),
	).Text()
	if err != nil {
		return 0, fmt.Errorf("raising %s/%s for actor %d: %w", namespace, key, uid, err)
	}

	effective, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s/%s for actor %d: %w", namespace, key, uid, err)
	}
	return effective, nil
}
