package chi

import (
	"time"

	"github.com/opendash/searchd/internal/domain/search/result"
)

// Error codes surfaced to API clients.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeUnauthorized     = "unauthorized"
	CodeRateLimited      = "rate_limited"
	CodeInternalError    = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResultItem is the wire shape of one search hit.
type ResultItem struct {
	ID             string            `json:"id"`
	EntityType     string            `json:"entityType"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	URL            string            `json:"url,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	RelevanceScore float64           `json:"relevanceScore"`
	Date           *time.Time        `json:"date,omitempty"`
}

// SearchResponse is the paginated search envelope.
type SearchResponse struct {
	Results    []ResultItem `json:"results"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
}

// QuickSearchResponse is the capped instant-search envelope.
type QuickSearchResponse struct {
	Results []ResultItem `json:"results"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func itemToDTO(it *result.Item) ResultItem {
	dto := ResultItem{
		ID:             it.ID(),
		EntityType:     it.EntityType(),
		Title:          it.Title(),
		Description:    it.Description(),
		URL:            it.URL(),
		Metadata:       it.Metadata(),
		RelevanceScore: it.Score(),
	}
	if !it.Date().IsZero() {
		d := it.Date()
		dto.Date = &d
	}
	return dto
}

func itemsToDTO(items []result.Item) []ResultItem {
	out := make([]ResultItem, len(items))
	for i := range items {
		out[i] = itemToDTO(&items[i])
	}
	return out
}
