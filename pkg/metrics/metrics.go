// Package metrics provides the centralized Prometheus metrics registry for
// the vitibrasil API. All metrics are defined in their respective packages
// (cache, fallback, scraper, api) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service. All
// metrics are automatically registered via promauto in their respective
// packages and exposed at /metrics.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Resolution Metrics (pkg/cache):
//   - vitibrasil_cache_hits_total{tier} (Counter): Tier hits (short, fallback, csv)
//   - vitibrasil_cache_misses_total{tier} (Counter): Tier misses
//   - vitibrasil_cache_store_errors_total{operation} (Counter): Redis operation failures
//   - vitibrasil_resolutions_total{outcome} (Counter): Resolutions by provenance
//     (fresh, short_term, fallback, csv_fallback, unavailable)
//
// Scrape Metrics (pkg/scraper):
//   - vitibrasil_scrape_requests_total{endpoint, status} (Counter): Upstream requests
//   - vitibrasil_scrape_duration_seconds{endpoint} (Histogram): Scrape latency
//   - vitibrasil_scrape_errors_total{class} (Counter): Fetch errors by class
//     (network, status, parse, timeout)
//   - vitibrasil_scrape_retries_total{class} (Counter): Retry attempts by error class
//   - vitibrasil_scrape_retry_exhausted_total (Counter): Fetches that exhausted retries
//
// Snapshot Metrics (pkg/fallback):
//   - vitibrasil_csv_cache_evictions_total (Counter): Bounded result cache evictions
//   - vitibrasil_csv_errors_total{reason} (Counter): Snapshot read/parse failures
//
// HTTP Metrics (pkg/api):
//   - vitibrasil_http_requests_total{route, code} (Counter): Requests by route and status
//   - vitibrasil_http_request_duration_seconds{route} (Histogram): Request latency
//
// Example Prometheus Queries:
//
//   # Short-term cache hit rate
//   sum(rate(vitibrasil_cache_hits_total{tier="short"}[5m])) /
//   (sum(rate(vitibrasil_cache_hits_total{tier="short"}[5m])) +
//    sum(rate(vitibrasil_cache_misses_total{tier="short"}[5m])))
//
//   # Degraded serving rate (anything but fresh or short_term)
//   sum(rate(vitibrasil_resolutions_total{outcome=~"fallback|csv_fallback"}[5m]))
//
//   # Exhaustion rate
//   rate(vitibrasil_resolutions_total{outcome="unavailable"}[5m])
//
//   # P95 scrape latency
//   histogram_quantile(0.95, rate(vitibrasil_scrape_duration_seconds_bucket[5m]))
