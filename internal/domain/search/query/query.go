package query

import (
	"fmt"

	"github.com/opendash/searchd/internal/domain"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 200
	DefaultPage   = 1
	DefaultLimit  = 20
	MaxLimit      = 100

	// AllTypes is the sentinel entity type expanding to every registered provider.
	AllTypes = "all"
)

// Sort is the merge ordering for search results.
type Sort string

const (
	// SortRelevance orders by descending relevance score (default).
	SortRelevance Sort = "relevance"
	// SortDate orders by descending provider-supplied date.
	SortDate Sort = "date"
	// SortName orders by title ascending, case-insensitive.
	SortName Sort = "name"
)

// IsValid reports whether s is a known sort key.
func (s Sort) IsValid() bool {
	switch s {
	case SortRelevance, SortDate, SortName:
		return true
	}
	return false
}

// Query is a validated search request.
type Query struct {
	text        string
	entityTypes []string
	page        int
	limit       int
	sortBy      Sort
}

// New validates and normalizes search parameters.
// Defaults: sortBy=relevance; entityTypes empty (or containing "all") means every
// registered type. Page and limit must already carry their defaults: a page below 1
// or a limit outside [1, MaxLimit] is rejected, not clamped.
func New(text string, entityTypes []string, page, limit int, sortBy Sort) (Query, error) {
	if text == "" {
		return Query{}, fmt.Errorf("%w: query text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: query text too long (max %d chars)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if page < 1 {
		return Query{}, fmt.Errorf("%w: page must be >= 1", domain.ErrInvalidQuery)
	}
	if limit < 1 || limit > MaxLimit {
		return Query{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidQuery, MaxLimit)
	}
	if sortBy == "" {
		sortBy = SortRelevance
	}
	if !sortBy.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown sortBy %q", domain.ErrInvalidQuery, sortBy)
	}

	types := make([]string, 0, len(entityTypes))
	all := len(entityTypes) == 0
	for _, t := range entityTypes {
		if t == AllTypes {
			all = true
			continue
		}
		if t != "" {
			types = append(types, t)
		}
	}
	if all {
		types = nil
	}

	return Query{
		text:        text,
		entityTypes: types,
		page:        page,
		limit:       limit,
		sortBy:      sortBy,
	}, nil
}

// Text returns the query text.
func (q *Query) Text() string { return q.text }

// EntityTypes returns the requested entity types. Empty means all.
func (q *Query) EntityTypes() []string { return q.entityTypes }

// IsAll reports whether the query targets every registered provider.
func (q *Query) IsAll() bool { return len(q.entityTypes) == 0 }

// Page returns the 1-based page number.
func (q *Query) Page() int { return q.page }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// SortBy returns the merge ordering.
func (q *Query) SortBy() Sort { return q.sortBy }

// Offset returns the index of the first item on the requested page.
func (q *Query) Offset() int { return (q.page - 1) * q.limit }

// CandidateBudget returns how many candidates each provider must contribute so that
// slicing the merged list at [offset, offset+limit) stays consistent.
func (q *Query) CandidateBudget() int { return q.page * q.limit }
