package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/opendash/searchd/internal/db"
)

// KVStore implements CounterStore on a shared key-value database
// (INCRBY + EXPIRE NX), so multiple instances draw from one budget.
type KVStore struct {
	kv db.KVStore
}

// NewKVStore creates a database-backed counter store.
func NewKVStore(kv db.KVStore) *KVStore {
	return &KVStore{kv: kv}
}

// Incr implements CounterStore. INCRBY is atomic server-side; EXPIRE NX starts
// the window on the first increment and never extends it afterwards.
func (s *KVStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.kv.IncrBy(ctx, key, 1)
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit INCRBY %s: %w", key, err)
	}

	if err := s.kv.Expire(ctx, key, window, true); err != nil {
		return 0, 0, fmt.Errorf("ratelimit EXPIRE %s: %w", key, err)
	}

	remaining, err := s.kv.TTL(ctx, key)
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit TTL %s: %w", key, err)
	}
	if remaining <= 0 {
		remaining = window
	}
	return count, remaining, nil
}
