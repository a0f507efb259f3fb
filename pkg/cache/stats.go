package cache

import "sync/atomic"

// Stats is an injected set of advisory counters shared by the Coordinator
// and the static fallback store. It is safe for concurrent use, never
// affects resolution correctness, and resets only on process restart.
type Stats struct {
	shortHits     atomic.Int64
	shortMisses   atomic.Int64
	longHits      atomic.Int64
	longMisses    atomic.Int64
	staticHits    atomic.Int64
	staticMisses  atomic.Int64
	freshFetches  atomic.Int64
	fetchFailures atomic.Int64
	evictions     atomic.Int64
	unavailable   atomic.Int64
}

// NewStats creates a zeroed counter set.
func NewStats() *Stats {
	return &Stats{}
}

// AddEviction records an eviction from the bounded static-result cache.
func (s *Stats) AddEviction() {
	if s != nil {
		s.evictions.Add(1)
	}
}

// Snapshot is a point-in-time copy of the counters, shaped for the
// operational health report.
type Snapshot struct {
	ShortTermHits   int64 `json:"short_term_hits"`
	ShortTermMisses int64 `json:"short_term_misses"`
	LongTermHits    int64 `json:"long_term_hits"`
	LongTermMisses  int64 `json:"long_term_misses"`
	StaticHits      int64 `json:"csv_fallback_hits"`
	StaticMisses    int64 `json:"csv_fallback_misses"`
	FreshFetches    int64 `json:"fresh_fetches"`
	FetchFailures   int64 `json:"fetch_failures"`
	Evictions       int64 `json:"evictions"`
	Unavailable     int64 `json:"unavailable"`
}

// Snapshot returns a consistent-enough copy for reporting. Counters are read
// individually; exact cross-counter consistency is not required for an
// advisory surface.
func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		ShortTermHits:   s.shortHits.Load(),
		ShortTermMisses: s.shortMisses.Load(),
		LongTermHits:    s.longHits.Load(),
		LongTermMisses:  s.longMisses.Load(),
		StaticHits:      s.staticHits.Load(),
		StaticMisses:    s.staticMisses.Load(),
		FreshFetches:    s.freshFetches.Load(),
		FetchFailures:   s.fetchFailures.Load(),
		Evictions:       s.evictions.Load(),
		Unavailable:     s.unavailable.Load(),
	}
}
