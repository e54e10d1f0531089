package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidQuery signals malformed search parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnknownEntityType signals a request naming an entity type no provider serves.
	ErrUnknownEntityType = errors.New("unknown entity type")
	// ErrRateLimited signals an exhausted request budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnauthorized signals a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrProviderUnavailable signals a provider timeout or internal failure.
	// Callers never see it; the failing provider degrades to an empty contribution.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// RateLimitedError wraps ErrRateLimited with a retry hint.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimited.Error(), e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// NewRateLimited creates a rate limit rejection carrying the retry hint.
func NewRateLimited(retryAfter time.Duration) error {
	return &RateLimitedError{RetryAfter: retryAfter}
}
