package search

import (
	"context"

	"github.com/opendash/searchd/internal/domain/search/provider"
	"github.com/opendash/searchd/internal/ratelimit"
)

// ProviderRegistry resolves entity types to their search providers.
type ProviderRegistry interface {
	Get(entityType string) (provider.Provider, bool)
	GetMany(entityTypes []string) []provider.Provider
	All() []provider.Provider
	AllTypes() []string
	HasType(entityType string) bool
}

// RateLimiter guards the two entry points with per-user request budgets.
type RateLimiter interface {
	Allow(ctx context.Context, userID string, class ratelimit.Class) error
}
