// Package provider defines the contract every entity-type search adapter satisfies.
package provider

import (
	"context"

	"github.com/opendash/searchd/internal/domain/search/query"
	"github.com/opendash/searchd/internal/domain/search/result"
)

// Options carries per-provider pagination and ordering for a single Search call.
// Pagination here is within the provider's own type; global pagination across
// types is the coordinator's job.
type Options struct {
	Page   int
	Limit  int
	SortBy query.Sort
}

// Provider is the search adapter for one entity type. Implementations own their
// row-level visibility: Search and Count must restrict records to what the caller
// principal in ctx may see.
type Provider interface {
	// EntityType returns the stable, unique type key this provider serves.
	EntityType() string

	// RequiredPermission returns the capability the caller must hold for this
	// provider to be consulted at all.
	RequiredPermission() string

	// Search returns scored, ordered candidates for the query text, paginated
	// within this single entity type.
	Search(ctx context.Context, text string, opts Options) ([]result.Item, error)

	// Count returns the total matches for the query text under the same
	// visibility filter Search applies.
	Count(ctx context.Context, text string) (int, error)
}

// Descriptor is the registration-time identity of a provider.
type Descriptor struct {
	EntityType         string
	RequiredPermission string
}

// Describe captures a provider's identity.
func Describe(p Provider) Descriptor {
	return Descriptor{
		EntityType:         p.EntityType(),
		RequiredPermission: p.RequiredPermission(),
	}
}
