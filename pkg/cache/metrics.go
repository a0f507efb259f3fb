package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks cache hits by tier (short, fallback, csv).
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitibrasil_cache_hits_total",
			Help: "Total number of cache hits by tier",
		},
		[]string{"tier"},
	)

	// cacheMisses tracks cache misses by tier.
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitibrasil_cache_misses_total",
			Help: "Total number of cache misses by tier",
		},
		[]string{"tier"},
	)

	// storeErrors tracks volatile store operation failures that were
	// converted into misses or discarded writes.
	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitibrasil_cache_store_errors_total",
			Help: "Total number of volatile store operation errors",
		},
		[]string{"operation"}, // "get", "set"
	)

	// resolutions tracks completed resolutions by final outcome.
	resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitibrasil_resolutions_total",
			Help: "Total number of resolutions by outcome",
		},
		[]string{"outcome"}, // "fresh", "short_term", "fallback", "csv_fallback", "unavailable"
	)
)

const (
	tierShort  = "short"
	tierLong   = "fallback"
	tierStatic = "csv"
)
