// Package registry holds the set of registered search providers, keyed by
// entity type. It is populated once at startup; request-time access is read-only.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/opendash/searchd/internal/domain/search/provider"
)

// Registry maps entity types to their search providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]provider.Provider
	logger    *zap.Logger
}

// New creates an empty registry.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		providers: make(map[string]provider.Provider),
		logger:    logger,
	}
}

// Register adds a provider under its entity type. Re-registering an existing type
// overwrites the previous provider with a warning; last write wins. This keeps
// hot-reload and test doubles from crashing the process.
func (r *Registry) Register(p provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := provider.Describe(p)
	if _, exists := r.providers[d.EntityType]; exists {
		r.logger.Warn("overwriting registered search provider",
			zap.String("entity_type", d.EntityType),
		)
	}
	r.providers[d.EntityType] = p
	r.logger.Debug("search provider registered",
		zap.String("entity_type", d.EntityType),
		zap.String("permission", d.RequiredPermission),
	)
}

// Get returns the provider for an entity type.
func (r *Registry) Get(entityType string) (provider.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[entityType]
	return p, ok
}

// GetMany returns the providers for the given entity types, silently dropping
// unknown ones. Upstream validation should already have rejected those; the
// registry stays defensive regardless.
func (r *Registry) GetMany(entityTypes []string) []provider.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]provider.Provider, 0, len(entityTypes))
	for _, t := range entityTypes {
		if p, ok := r.providers[t]; ok {
			out = append(out, p)
		}
	}
	return out
}

// All returns every registered provider in entity-type order.
func (r *Registry) All() []provider.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]provider.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityType() < out[j].EntityType() })
	return out
}

// AllTypes returns the sorted set of registered entity types.
func (r *Registry) AllTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// HasType reports whether an entity type is registered.
func (r *Registry) HasType(entityType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[entityType]
	return ok
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}
