package secondary

import "context"

// ActorConfig defines the secondary port for the per-actor key-value
// configuration store.
type ActorConfig interface {
	// Get returns the stored value, or fallback when the key is not set.
	Get(ctx context.Context, uid int64, namespace, key string, fallback int64) (int64, error)

	// Set stores value unconditionally.
	Set(ctx context.Context, uid int64, namespace, key string, value int64) error

	// Raise atomically stores value if it is greater than the current one and
	// returns the value in effect afterwards.
	Raise(ctx context.Context, uid int64, namespace, key string, value int64) (int64, error)
}
