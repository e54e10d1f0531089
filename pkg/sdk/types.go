package searchd

import "time"

// SearchRequest describes one paginated search call.
type SearchRequest struct {
	// Query is the search text (required, at most 200 characters).
	Query string
	// EntityTypes restricts the search to the given types. Empty means all types.
	EntityTypes []string
	// Page is the 1-based page number. Zero means the server default (1).
	Page int
	// Limit is the page size. Zero means the server default (20); max 100.
	Limit int
	// SortBy is "relevance", "date" or "name". Empty means relevance.
	SortBy string
}

// Item is one federated search hit.
type Item struct {
	ID             string            `json:"id"`
	EntityType     string            `json:"entityType"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	URL            string            `json:"url,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	RelevanceScore float64           `json:"relevanceScore"`
	Date           *time.Time        `json:"date,omitempty"`
}

// SearchResult is one page of merged results.
type SearchResult struct {
	Results    []Item `json:"results"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type quickSearchResult struct {
	Results []Item `json:"results"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
