package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Prometheus metrics for scrape operations.
var (
	scrapeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitibrasil_scrape_requests_total",
		Help: "Total scrape requests by endpoint and outcome",
	}, []string{"endpoint", "status"})

	scrapeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vitibrasil_scrape_duration_seconds",
		Help:    "Scrape duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	scrapeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitibrasil_scrape_errors_total",
		Help: "Total scrape errors by class",
	}, []string{"class"})
)

// Config holds the scraper client configuration.
type Config struct {
	// BaseURL is the source page URL.
	BaseURL string

	// UserAgent identifies this service to the source site.
	UserAgent string

	// RequestTimeout bounds a single HTTP attempt.
	RequestTimeout time.Duration

	// RequestsPerSecond throttles outbound scrapes across all callers. The
	// source site is a shared government service; be polite.
	RequestsPerSecond float64

	// Burst is the limiter burst size.
	Burst int

	// Retry configures per-fetch retry behavior.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         "vitibrasil-api/1.0",
		RequestTimeout:    15 * time.Second,
		RequestsPerSecond: 5,
		Burst:             5,
		Retry:             DefaultRetryConfig(),
	}
}

// Client scrapes vitibrasil pages into Records. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	retry      RetryConfig
	logger     zerolog.Logger
}

// New creates a scraper client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		retry:      cfg.Retry,
		logger:     log.With().Str("component", "scraper").Logger(),
	}
}

// Fetch scrapes one endpoint page and parses it into a Record. Failures are
// returned as *FetchError (possibly wrapped by ErrRetryExhausted); callers
// feed them into the cache fall-through chain rather than surfacing them.
func (c *Client) Fetch(ctx context.Context, endpoint, year, subOption string) (*Record, error) {
	pageURL, err := BuildURL(c.baseURL, endpoint, year, subOption)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Class: ErrorClassParse, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Class: ErrorClassTimeout, Err: err}
	}

	start := time.Now()
	defer func() {
		scrapeDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var rec *Record
	retryErr := retryWithBackoff(ctx, c.retry, func() *FetchError {
		var ferr *FetchError
		rec, ferr = c.fetchOnce(ctx, endpoint, pageURL)
		return ferr
	})
	if retryErr != nil {
		return nil, retryErr
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("body_groups", len(rec.Body)).
		Dur("duration", time.Since(start)).
		Msg("Scrape succeeded")
	return rec, nil
}

// fetchOnce performs a single scrape attempt.
func (c *Client) fetchOnce(ctx context.Context, endpoint, pageURL string) (*Record, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, c.fail(endpoint, 0, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(endpoint, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(endpoint, resp.StatusCode,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	// The site serves latin-1 pages; decode by declared charset.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, c.fail(endpoint, 0, err)
	}

	rec, err := ParseTable(body)
	if err != nil {
		ferr := &FetchError{Endpoint: endpoint, Class: ErrorClassParse, Err: err}
		c.observeError(endpoint, ferr)
		return nil, ferr
	}

	scrapeRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return rec, nil
}

// fail builds, records, and logs a classified fetch error.
func (c *Client) fail(endpoint string, statusCode int, err error) *FetchError {
	ferr := &FetchError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Class:      classify(statusCode, err),
		Err:        err,
	}
	c.observeError(endpoint, ferr)
	return ferr
}

func (c *Client) observeError(endpoint string, ferr *FetchError) {
	scrapeErrorsTotal.WithLabelValues(string(ferr.Class)).Inc()
	scrapeRequestsTotal.WithLabelValues(endpoint, string(ferr.Class)).Inc()
	c.logger.Warn().
		Str("endpoint", endpoint).
		Int("status_code", ferr.StatusCode).
		Str("error_class", string(ferr.Class)).
		Err(ferr.Err).
		Msg("Scrape attempt failed")
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
