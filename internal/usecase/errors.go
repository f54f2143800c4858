package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("resource conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrRateLimited keeps display casing: its text is shown to clients
	// verbatim, completed by RateLimitedError.
	ErrRateLimited = errors.New("Rate limit exceeded")
)

// RateLimitedError builds the user-visible denial for one limiter class,
// e.g. "Rate limit exceeded. Too many score-submission requests.".
func RateLimitedError(class string) error {
	return fmt.Errorf("%w. Too many %s requests.", ErrRateLimited, class)
}
