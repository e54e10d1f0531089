package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/opendash/searchd/internal/domain"
)

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("counter backend down")
}

func newTestLimiter(store CounterStore, policies map[Class]Policy) *Limiter {
	return New(store, policies, nil)
}

func TestLimiter_AllowsUnderCeiling(t *testing.T) {
	l := newTestLimiter(NewMemoryStore(), map[Class]Policy{
		ClassSearch: {Limit: 3, Window: time.Minute},
	})

	for i := 0; i < 3; i++ {
		if err := l.Allow(context.Background(), "u1", ClassSearch); err != nil {
			t.Fatalf("request %d rejected: %v", i+1, err)
		}
	}
	err := l.Allow(context.Background(), "u1", ClassSearch)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("request over ceiling: err = %v, want ErrRateLimited", err)
	}

	var detail *domain.RateLimitedError
	if !errors.As(err, &detail) {
		t.Fatal("rejection should carry a RateLimitedError")
	}
	if detail.RetryAfter <= 0 {
		t.Errorf("retry hint = %v, want positive", detail.RetryAfter)
	}
}

func TestLimiter_ClassesAreIndependent(t *testing.T) {
	l := newTestLimiter(NewMemoryStore(), map[Class]Policy{
		ClassSearch:      {Limit: 1, Window: time.Minute},
		ClassQuickSearch: {Limit: 1, Window: time.Minute},
	})

	ctx := context.Background()
	if err := l.Allow(ctx, "u1", ClassSearch); err != nil {
		t.Fatalf("search: %v", err)
	}
	if err := l.Allow(ctx, "u1", ClassQuickSearch); err != nil {
		t.Fatalf("quick search budget should be separate: %v", err)
	}
	if err := l.Allow(ctx, "u1", ClassSearch); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("search over ceiling: err = %v, want ErrRateLimited", err)
	}
}

func TestLimiter_UsersAreIndependent(t *testing.T) {
	l := newTestLimiter(NewMemoryStore(), map[Class]Policy{
		ClassSearch: {Limit: 1, Window: time.Minute},
	})

	ctx := context.Background()
	if err := l.Allow(ctx, "u1", ClassSearch); err != nil {
		t.Fatalf("u1: %v", err)
	}
	if err := l.Allow(ctx, "u2", ClassSearch); err != nil {
		t.Fatalf("u2 should have its own budget: %v", err)
	}
}

func TestLimiter_ZeroLimitDisablesClass(t *testing.T) {
	l := newTestLimiter(NewMemoryStore(), map[Class]Policy{
		ClassSearch: {Limit: 0, Window: time.Minute},
	})

	for i := 0; i < 100; i++ {
		if err := l.Allow(context.Background(), "u1", ClassSearch); err != nil {
			t.Fatalf("disabled class rejected request: %v", err)
		}
	}
}

func TestLimiter_MissingPolicyAllows(t *testing.T) {
	l := newTestLimiter(NewMemoryStore(), nil)
	if err := l.Allow(context.Background(), "u1", ClassQuickSearch); err != nil {
		t.Fatalf("class without policy rejected request: %v", err)
	}
}

func TestLimiter_FailsOpenOnStoreError(t *testing.T) {
	l := newTestLimiter(failingStore{}, map[Class]Policy{
		ClassSearch: {Limit: 1, Window: time.Minute},
	})

	for i := 0; i < 5; i++ {
		if err := l.Allow(context.Background(), "u1", ClassSearch); err != nil {
			t.Fatalf("counter failure must not reject requests: %v", err)
		}
	}
}

func TestLimiter_ConcurrentRequestsNeverExceedCeiling(t *testing.T) {
	const limit = 10
	l := newTestLimiter(NewMemoryStore(), map[Class]Policy{
		ClassSearch: {Limit: limit, Window: time.Minute},
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Allow(context.Background(), "u1", ClassSearch); err == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Errorf("allowed = %d, want exactly %d", allowed, limit)
	}
}

func TestMemoryStore_WindowRollsOver(t *testing.T) {
	s := NewMemoryStore()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	for i := int64(1); i <= 3; i++ {
		count, _, err := s.Incr(context.Background(), "k", time.Minute)
		if err != nil {
			t.Fatalf("incr: %v", err)
		}
		if count != i {
			t.Fatalf("count = %d, want %d", count, i)
		}
	}

	current = current.Add(time.Minute)
	count, remaining, err := s.Incr(context.Background(), "k", time.Minute)
	if err != nil {
		t.Fatalf("incr after window: %v", err)
	}
	if count != 1 {
		t.Errorf("count after rollover = %d, want 1", count)
	}
	if remaining != time.Minute {
		t.Errorf("remaining = %v, want %v", remaining, time.Minute)
	}
}

func TestMemoryStore_ReportsRemainingWindow(t *testing.T) {
	s := NewMemoryStore()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	if _, _, err := s.Incr(context.Background(), "k", time.Minute); err != nil {
		t.Fatalf("incr: %v", err)
	}
	current = current.Add(40 * time.Second)
	_, remaining, err := s.Incr(context.Background(), "k", time.Minute)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if remaining != 20*time.Second {
		t.Errorf("remaining = %v, want 20s", remaining)
	}
}
