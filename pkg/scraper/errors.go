package scraper

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by the scraper.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrTableNotFound is returned when the page contains no data table.
	ErrTableNotFound = errors.New("data table not found in page")
)

// ErrorClass classifies a fetch failure.
type ErrorClass string

const (
	// ErrorClassNetwork covers transport-level failures (dial, reset, DNS).
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassStatus covers non-success HTTP statuses from the source.
	ErrorClassStatus ErrorClass = "status"

	// ErrorClassParse covers pages that fetched but could not be parsed.
	ErrorClassParse ErrorClass = "parse"

	// ErrorClassTimeout covers deadline expiry during the fetch.
	ErrorClassTimeout ErrorClass = "timeout"
)

// FetchError is a typed fetch failure with enough context for the cache
// coordinator's fall-through logic and for diagnostics.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Class      ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s error (status %d): %v",
			e.Endpoint, e.Class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s error: %v", e.Endpoint, e.Class, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// classify categorizes a failed attempt.
func classify(statusCode int, err error) ErrorClass {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrorClassTimeout
	case statusCode != 0:
		return ErrorClassStatus
	case errors.Is(err, ErrTableNotFound):
		return ErrorClassParse
	default:
		return ErrorClassNetwork
	}
}

// shouldRetry reports whether a failure class is worth another attempt.
// Parse failures are deterministic and timeouts have no budget left; only
// transient transport and upstream 5xx failures retry.
func shouldRetry(class ErrorClass, statusCode int) bool {
	switch class {
	case ErrorClassNetwork:
		return true
	case ErrorClassStatus:
		return statusCode >= 500
	default:
		return false
	}
}
