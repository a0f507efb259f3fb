// Package cache implements the tiered resolution engine that shields API
// callers from the unreliability of the vitibrasil site.
//
// Every request is resolved through a fixed precedence of data sources:
//
//  1. Short-term Redis tier (default TTL 5 minutes) - absorbs request bursts
//  2. Live fetch - fresh scrape of the source site
//  3. Long-term Redis tier (default TTL 30 days) - survives source outages
//  4. Static CSV fallback - survives simultaneous source and Redis outages
//
// The first tier that produces data wins; a cheaper tier is never preferred
// over a fresher one. Each result carries a Provenance tag so clients can
// tell live data from degraded data. Only exhaustion of all four sources is
// an error, returned as *UnavailableError with per-tier diagnostics.
//
// # Basic Usage
//
//	store := cache.NewRedisStore(redisClient)
//	coord := cache.NewCoordinator(store, staticStore, stats, cache.DefaultConfig())
//
//	entry, err := coord.Resolve(ctx, "producao", params, func(ctx context.Context) (json.RawMessage, error) {
//		rec, err := scraperClient.Fetch(ctx, "producao", params["year"], params["sub_option"])
//		if err != nil {
//			return nil, err
//		}
//		return json.Marshal(rec)
//	})
//
// # Failure Semantics
//
// Redis connectivity failures are converted into tier misses by the store
// client; fetch failures are expected steady-state events and
// feed the fall-through chain. Neither ever panics or propagates to callers
// directly.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - vitibrasil_cache_hits_total{tier} - hits by tier
//   - vitibrasil_cache_misses_total{tier} - misses by tier
//   - vitibrasil_cache_store_errors_total{operation} - Redis operation failures
//   - vitibrasil_resolutions_total{outcome} - resolutions by final provenance
package cache
