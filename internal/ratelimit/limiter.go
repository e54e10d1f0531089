// Package ratelimit guards the search entry points with a per-user,
// per-endpoint-class windowed request budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/opendash/searchd/internal/domain"
)

// Class is an endpoint class with an independently tunable budget.
type Class string

const (
	// ClassSearch covers the full paginated search endpoint.
	ClassSearch Class = "search"
	// ClassQuickSearch covers the capped instant-search endpoint.
	ClassQuickSearch Class = "quick_search"
)

// Policy is a request ceiling over a window. Both values are operational
// configuration, never hardcoded business logic. A zero Limit disables the
// budget for its class.
type Policy struct {
	Limit  int64
	Window time.Duration
}

// CounterStore is the windowed counter backend. Incr must be atomic: two
// concurrent calls for the same key must observe distinct counts.
type CounterStore interface {
	// Incr increments the counter for key, starting a window of the given
	// length on first increment, and returns the post-increment count together
	// with the time remaining in the window.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, remaining time.Duration, err error)
}

// Limiter checks request budgets before the coordinator is reached.
type Limiter struct {
	store    CounterStore
	policies map[Class]Policy
	logger   *zap.Logger
}

// New creates a limiter with the given per-class policies.
func New(store CounterStore, policies map[Class]Policy, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{store: store, policies: policies, logger: logger}
}

// Allow consumes one request from the caller's budget for the given class.
// Returns a RateLimitedError (unwrapping to domain.ErrRateLimited) with a retry
// hint when the ceiling is reached. A counter backend failure fails open with a
// warning: losing rate limiting briefly beats failing every search.
func (l *Limiter) Allow(ctx context.Context, userID string, class Class) error {
	policy, ok := l.policies[class]
	if !ok || policy.Limit <= 0 {
		return nil
	}

	key := counterKey(userID, class)
	count, remaining, err := l.store.Incr(ctx, key, policy.Window)
	if err != nil {
		l.logger.Warn("rate limit counter unavailable, allowing request",
			zap.String("class", string(class)),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}

	if count > policy.Limit {
		if remaining <= 0 {
			remaining = policy.Window
		}
		return domain.NewRateLimited(remaining)
	}
	return nil
}

func counterKey(userID string, class Class) string {
	return fmt.Sprintf("searchd:ratelimit:%s:%s", class, userID)
}
