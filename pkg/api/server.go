package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vitidata/vitibrasil-api/pkg/cache"
	"github.com/vitidata/vitibrasil-api/pkg/fallback"
	"github.com/vitidata/vitibrasil-api/pkg/scraper"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitibrasil_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "code"})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vitibrasil_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// Fetcher is the live-scrape collaborator of the data routes. Implemented by
// scraper.Client.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint, year, subOption string) (*scraper.Record, error)
}

// InventoryValidator reports the health of the static snapshot inventory for
// the heartbeat. Implemented by fallback.Store.
type InventoryValidator interface {
	ValidateInventory(ctx context.Context) fallback.Report
}

// Pinger probes volatile store connectivity for the heartbeat. Implemented by
// cache.RedisStore. The resolution path never uses it; the store fails soft.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config wires a Server's collaborators. Coordinator and Fetcher are
// required; the rest degrade gracefully when absent.
type Config struct {
	Coordinator *cache.Coordinator
	Fetcher     Fetcher

	// Inventory feeds the heartbeat's snapshot health section. Nil omits it.
	Inventory InventoryValidator

	// Store feeds the heartbeat's Redis connectivity field. Nil omits it.
	Store Pinger

	// Credentials is the Basic auth user/password set for the data routes.
	// Empty disables authentication; intended for tests only.
	Credentials map[string]string
}

// Server is the HTTP layer over the resolution engine.
type Server struct {
	coordinator *cache.Coordinator
	fetcher     Fetcher
	inventory   InventoryValidator
	store       Pinger
	credentials map[string]string
	logger      zerolog.Logger
	startedAt   time.Time
}

// New creates a Server. It panics when a required collaborator is missing,
// matching construction-time misuse elsewhere in the module.
func New(cfg Config) *Server {
	if cfg.Coordinator == nil {
		panic("coordinator cannot be nil")
	}
	if cfg.Fetcher == nil {
		panic("fetcher cannot be nil")
	}
	return &Server{
		coordinator: cfg.Coordinator,
		fetcher:     cfg.Fetcher,
		inventory:   cfg.Inventory,
		store:       cfg.Store,
		credentials: cfg.Credentials,
		logger:      log.With().Str("component", "api").Logger(),
		startedAt:   time.Now(),
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	for _, endpoint := range scraper.Endpoints() {
		route := "/api/v1/" + endpoint
		var h http.Handler = s.dataHandler(endpoint)
		if len(s.credentials) > 0 {
			h = basicAuth(s.credentials, h)
		}
		mux.Handle("GET "+route, s.instrument(route, h))
	}

	mux.Handle("GET /heartbeat", s.instrument("/heartbeat", http.HandlerFunc(s.handleHeartbeat)))
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// instrument wraps a route with request counting and latency observation.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// dataHandler serves one endpoint's data route: validate, then resolve
// through the tier chain with a live-scrape closure.
func (s *Server) dataHandler(endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year := r.URL.Query().Get("year")
		subOption := r.URL.Query().Get("sub_option")

		if details := validateRequest(endpoint, year, subOption); len(details) > 0 {
			writeValidationError(w, details)
			return
		}

		params := make(map[string]string, 2)
		if year != "" {
			params["year"] = year
		}
		if subOption != "" {
			params["sub_option"] = subOption
		}

		fetch := func(ctx context.Context) (json.RawMessage, error) {
			rec, err := s.fetcher.Fetch(ctx, endpoint, year, subOption)
			if err != nil {
				return nil, err
			}
			return json.Marshal(rec)
		}

		entry, err := s.coordinator.Resolve(r.Context(), endpoint, params, fetch)
		if err != nil {
			var uerr *cache.UnavailableError
			if errors.As(err, &uerr) {
				writeUnavailable(w, uerr)
				return
			}
			s.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Unexpected resolution error")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, entry)
	}
}

// heartbeatBody is the operational health report. Status is "ok" only when
// every subsystem it can see is healthy; the service still serves requests
// while degraded, that is the point of the tier chain.
type heartbeatBody struct {
	Status        string           `json:"status"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Redis         string           `json:"redis,omitempty"`
	Cache         cache.Snapshot   `json:"cache"`
	Inventory     *fallback.Report `json:"csv_inventory,omitempty"`
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	body := heartbeatBody{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Cache:         s.coordinator.Stats().Snapshot(),
	}
	if s.store != nil {
		pctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		if err := s.store.Ping(pctx); err != nil {
			body.Redis = "unavailable"
			body.Status = "degraded"
		} else {
			body.Redis = "ok"
		}
		cancel()
	}
	if s.inventory != nil {
		report := s.inventory.ValidateInventory(r.Context())
		body.Inventory = &report
		if !report.Healthy {
			body.Status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, body)
}
