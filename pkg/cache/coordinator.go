package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Tier key prefixes. The Key Builder is tier-agnostic; the Coordinator
// namespaces its output per tier.
const (
	shortPrefix = "short:"
	longPrefix  = "fallback:"
)

// Default tier parameters.
const (
	DefaultShortTTL     = 5 * time.Minute
	DefaultLongTTL      = 30 * 24 * time.Hour
	DefaultFetchTimeout = 30 * time.Second
)

// FetchFunc is the live-fetch collaborator: it returns a freshly scraped,
// JSON-encoded record or a typed fetch error. Owned by the scraping
// subsystem, not the core.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// StaticStore is the last-resort data source consulted when both volatile
// tiers and the live fetch have failed. A missing or unparsable backing file
// is reported as a clean miss.
type StaticStore interface {
	Lookup(ctx context.Context, endpoint, subOption string) (json.RawMessage, bool)
}

// Config holds the Coordinator's tier parameters.
type Config struct {
	// ShortTTL is the freshness window of the short-term tier.
	ShortTTL time.Duration

	// LongTTL is the retention of the long-term (outage survival) tier.
	LongTTL time.Duration

	// FetchTimeout bounds the live fetch. A timed-out fetch is treated
	// identically to a fetch failure.
	FetchTimeout time.Duration
}

// DefaultConfig returns the default tier parameters.
func DefaultConfig() Config {
	return Config{
		ShortTTL:     DefaultShortTTL,
		LongTTL:      DefaultLongTTL,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// Coordinator orchestrates lookups across the short-TTL tier, the live
// fetch, the long-TTL tier, and the static fallback store, enforcing a
// strict freshness-first precedence and tagging every result with its
// provenance. It is stateless per call except for the injected Stats.
type Coordinator struct {
	store        VolatileStore
	static       StaticStore
	stats        *Stats
	shortTTL     time.Duration
	longTTL      time.Duration
	fetchTimeout time.Duration
	logger       zerolog.Logger
}

// NewCoordinator creates a Coordinator. static may be nil when no fallback
// directory is configured; the static tier is then skipped as a miss.
func NewCoordinator(store VolatileStore, static StaticStore, stats *Stats, cfg Config) *Coordinator {
	if store == nil {
		panic("volatile store cannot be nil")
	}
	if stats == nil {
		stats = NewStats()
	}
	if cfg.ShortTTL <= 0 {
		cfg.ShortTTL = DefaultShortTTL
	}
	if cfg.LongTTL <= 0 {
		cfg.LongTTL = DefaultLongTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	return &Coordinator{
		store:        store,
		static:       static,
		stats:        stats,
		shortTTL:     cfg.ShortTTL,
		longTTL:      cfg.LongTTL,
		fetchTimeout: cfg.FetchTimeout,
		logger:       log.With().Str("component", "cache-coordinator").Logger(),
	}
}

// Stats returns the injected counter set.
func (c *Coordinator) Stats() *Stats {
	return c.stats
}

// Resolve answers one data request through the tier precedence chain,
// short-circuiting on the first tier that produces data. The absence of any
// single tier is non-fatal; only exhaustion of all four yields an error, and
// that error is always *UnavailableError.
func (c *Coordinator) Resolve(ctx context.Context, endpoint string, params map[string]string, fetch FetchFunc) (*Entry, error) {
	key := BuildKey(endpoint, params)
	attempts := make([]TierAttempt, 0, 4)

	// Tier 1: short-term cache.
	if entry, ok := c.readTier(ctx, shortPrefix+key, ShortTerm); ok {
		c.stats.shortHits.Add(1)
		cacheHits.WithLabelValues(tierShort).Inc()
		resolutions.WithLabelValues(ShortTerm.String()).Inc()
		c.logger.Debug().Str("endpoint", endpoint).Msg("Short-term cache hit")
		return entry, nil
	}
	c.stats.shortMisses.Add(1)
	cacheMisses.WithLabelValues(tierShort).Inc()
	attempts = append(attempts, TierAttempt{TierShortTerm, "miss"})

	// Tier 2: live fetch, bounded by timeout.
	fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	payload, fetchErr := fetch(fctx)
	cancel()
	if fetchErr == nil {
		entry := &Entry{Data: payload, Provenance: Fresh, StoredAt: time.Now().UTC()}
		c.warmTiers(ctx, key, entry)
		c.stats.freshFetches.Add(1)
		resolutions.WithLabelValues(Fresh.String()).Inc()
		c.logger.Debug().Str("endpoint", endpoint).Msg("Fresh data fetched")
		return entry, nil
	}
	c.stats.fetchFailures.Add(1)
	attempts = append(attempts, TierAttempt{TierLiveFetch, fetchErr.Error()})
	c.logger.Warn().Err(fetchErr).Str("endpoint", endpoint).Msg("Live fetch failed, falling through")

	// Tier 3: long-term cache.
	if entry, ok := c.readTier(ctx, longPrefix+key, LongTerm); ok {
		c.stats.longHits.Add(1)
		cacheHits.WithLabelValues(tierLong).Inc()
		resolutions.WithLabelValues(LongTerm.String()).Inc()
		c.logger.Info().Str("endpoint", endpoint).Msg("Serving long-term cached data")
		return entry, nil
	}
	c.stats.longMisses.Add(1)
	cacheMisses.WithLabelValues(tierLong).Inc()
	attempts = append(attempts, TierAttempt{TierLongTerm, "miss or store unavailable"})

	// Tier 4: static fallback.
	if c.static != nil {
		if payload, ok := c.static.Lookup(ctx, endpoint, paramValue(params, "sub_option")); ok {
			c.stats.staticHits.Add(1)
			cacheHits.WithLabelValues(tierStatic).Inc()
			resolutions.WithLabelValues(StaticFallback.String()).Inc()
			c.logger.Info().Str("endpoint", endpoint).Msg("Serving static fallback data")
			return &Entry{Data: payload, Provenance: StaticFallback, StoredAt: time.Now().UTC()}, nil
		}
	}
	c.stats.staticMisses.Add(1)
	cacheMisses.WithLabelValues(tierStatic).Inc()
	attempts = append(attempts, TierAttempt{TierStatic, "no static source for endpoint/sub_option"})

	c.stats.unavailable.Add(1)
	resolutions.WithLabelValues("unavailable").Inc()
	c.logger.Error().Str("endpoint", endpoint).Msg("All data sources exhausted")
	return nil, &UnavailableError{Endpoint: endpoint, Attempts: attempts}
}

// readTier reads and decodes one volatile tier. A corrupted entry is treated
// as a miss.
func (c *Coordinator) readTier(ctx context.Context, key string, p Provenance) (*Entry, bool) {
	raw, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	entry, err := decodeEntry(raw, p)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Corrupted cache entry, treating as miss")
		return nil, false
	}
	return entry, true
}

// warmTiers writes a freshly fetched entry to both volatile tiers. Both
// writes are opportunistic cache warming: a failure is logged by the store
// and never fails the request.
func (c *Coordinator) warmTiers(ctx context.Context, key string, entry *Entry) {
	raw, err := encodeEntry(entry)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to encode entry for cache warming")
		return
	}
	// Writes are idempotent and safe to finish even if the request that
	// triggered them has already been aborted.
	wctx := context.WithoutCancel(ctx)
	c.store.Set(wctx, shortPrefix+key, raw, c.shortTTL)
	c.store.Set(wctx, longPrefix+key, raw, c.longTTL)
}

// paramValue returns a parameter by case-insensitive name.
func paramValue(params map[string]string, name string) string {
	for k, v := range params {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
