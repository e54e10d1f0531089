package searchd

import (
	"fmt"
	"time"

	"github.com/opendash/searchd/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery = domain.ErrInvalidQuery
	ErrUnauthorized = domain.ErrUnauthorized
	ErrRateLimited  = domain.ErrRateLimited
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	// RetryAfter is the server's Retry-After hint on 429 responses, zero otherwise.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("searchd: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap maps the response status onto the package sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 400:
		return ErrInvalidQuery
	case 401, 403:
		return ErrUnauthorized
	case 429:
		return ErrRateLimited
	}
	return nil
}
