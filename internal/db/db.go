package db

import (
	"context"
	"time"
)

// Store is the narrow key-value contract the engine needs: windowed counters for
// rate limiting plus connectivity checks.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides key-value and counter operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// IncrBy atomically increments a key and returns the post-increment value.
	IncrBy(ctx context.Context, key string, val int64) (int64, error)

	// Expire sets a TTL on a key. When nx is true the TTL is only set if the key
	// has no expiry yet, so repeated increments never extend the window.
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error

	// TTL returns the remaining lifetime of a key, or 0 if the key has none.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
