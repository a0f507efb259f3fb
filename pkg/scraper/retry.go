package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for retry operations.
var (
	scrapeRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitibrasil_scrape_retries_total",
		Help: "Total number of scrape retry attempts by error class",
	}, []string{"error_class"})

	scrapeRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitibrasil_scrape_retry_exhausted_total",
		Help: "Total number of scrapes that exhausted all retry attempts by error class",
	}, []string{"error_class"})
)

// RetryConfig holds the configuration for scrape retry logic.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialBackoff is the backoff before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff.
	MaxBackoff time.Duration

	// BackoffMultiplier is the exponential growth factor.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration. The budget is
// deliberately small: the caller's fetch timeout bounds the whole operation
// and the cache tiers absorb persistent failures.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// retryWithBackoff executes fn with exponential backoff and jitter. fn must
// return a *FetchError (or nil); retry decisions follow its classification.
// Context cancellation is honored during backoff waits.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() *FetchError) error {
	var lastErr *FetchError
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		ferr := fn()
		if ferr == nil {
			if attempt > 1 {
				log.Info().Int("attempt", attempt).Msg("Scrape succeeded after retry")
			}
			return nil
		}
		lastErr = ferr

		if !shouldRetry(ferr.Class, ferr.StatusCode) {
			return ferr
		}
		if attempt >= cfg.MaxAttempts {
			break
		}

		scrapeRetriesTotal.WithLabelValues(string(ferr.Class)).Inc()

		// ±20% jitter to avoid synchronized retries.
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		log.Debug().
			Str("error_class", string(ferr.Class)).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying scrape after backoff")

		select {
		case <-ctx.Done():
			return &FetchError{Endpoint: lastErr.Endpoint, Class: ErrorClassTimeout, Err: ctx.Err()}
		case <-time.After(jitter):
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	scrapeRetryExhaustedTotal.WithLabelValues(string(lastErr.Class)).Inc()
	log.Warn().
		Str("error_class", string(lastErr.Class)).
		Int("max_attempts", cfg.MaxAttempts).
		Msg("Scrape retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, cfg.MaxAttempts, lastErr)
}
