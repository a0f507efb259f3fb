package fallback

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/vitidata/vitibrasil-api/pkg/cache"
	"github.com/vitidata/vitibrasil-api/pkg/scraper"
)

var (
	csvEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vitibrasil_csv_cache_evictions_total",
		Help: "Entries evicted from the bounded snapshot result cache.",
	})
	csvParseErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vitibrasil_csv_errors_total",
		Help: "Snapshot files that could not be read or parsed, by reason.",
	}, []string{"reason"})
)

const (
	// DefaultCacheCapacity bounds the number of parsed snapshots held in
	// memory. The full inventory is 15 files, so the default never evicts.
	DefaultCacheCapacity = 32

	// DefaultCacheTTL re-reads a snapshot from disk after this long, so an
	// operator can swap files without restarting the service.
	DefaultCacheTTL = time.Hour
)

// footerKeywords mark aggregate rows that belong in the record footer rather
// than the body. Matching is case-insensitive on the row's first cell.
var footerKeywords = []string{"total", "soma", "subtotal", "geral", "consolidado", "média", "media"}

// Config holds the tunables of a Store. The zero value is usable once Dir is
// set; capacity and TTL fall back to package defaults.
type Config struct {
	// Dir is the directory holding the CSV snapshot files.
	Dir string

	// Mapping resolves (endpoint, sub-option) pairs to file names. Nil means
	// DefaultMapping.
	Mapping map[string]EndpointMapping

	// CacheCapacity bounds the parsed-result cache. Zero means
	// DefaultCacheCapacity.
	CacheCapacity int

	// CacheTTL is how long a parsed snapshot is served before the file is
	// re-read. Zero means DefaultCacheTTL.
	CacheTTL time.Duration

	// Stats receives eviction counts when set.
	Stats *cache.Stats
}

// Store serves pre-baked CSV snapshots as the last resolution tier. It
// implements the coordinator's static-store contract: lookups never fail,
// they either produce a payload or report a miss.
type Store struct {
	dir     string
	mapping map[string]EndpointMapping
	cache   *resultCache
	logger  zerolog.Logger
}

// New creates a Store over the given snapshot directory. The directory is not
// required to exist yet; absent files simply miss. Run ValidateInventory to
// get an explicit inventory report.
func New(cfg Config) *Store {
	if cfg.Mapping == nil {
		cfg.Mapping = DefaultMapping
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = DefaultCacheCapacity
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	stats := cfg.Stats
	onEvict := func() {
		csvEvictions.Inc()
		stats.AddEviction()
	}

	return &Store{
		dir:     cfg.Dir,
		mapping: cfg.Mapping,
		cache:   newResultCache(cfg.CacheCapacity, cfg.CacheTTL, onEvict),
		logger:  log.With().Str("component", "fallback").Logger(),
	}
}

// SetLogger replaces the store's logger.
func (s *Store) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "fallback").Logger()
}

// Lookup resolves an (endpoint, sub-option) pair against the snapshot
// inventory. Sub-options without a dedicated file fall back to the endpoint's
// default file. A missing or unreadable file is a miss, never an error; the
// caller treats this tier as best effort.
func (s *Store) Lookup(ctx context.Context, endpoint, subOption string) (json.RawMessage, bool) {
	file, ok := fileFor(s.mapping, endpoint, subOption)
	if !ok {
		return nil, false
	}

	if payload, ok := s.cache.get(file); ok {
		return payload, true
	}

	if err := ctx.Err(); err != nil {
		return nil, false
	}

	payload, err := s.loadFile(file)
	if err != nil {
		s.logger.Warn().Err(err).Str("endpoint", endpoint).Str("file", file).
			Msg("snapshot unavailable")
		return nil, false
	}

	s.cache.put(file, payload)
	return payload, true
}

// loadFile reads and parses one snapshot file into the shared record shape
// and returns its JSON encoding.
func (s *Store) loadFile(file string) (json.RawMessage, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		csvParseErrors.WithLabelValues("read").Inc()
		return nil, err
	}

	rec, err := parseCSV(data)
	if err != nil {
		csvParseErrors.WithLabelValues("parse").Inc()
		return nil, err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		csvParseErrors.WithLabelValues("encode").Inc()
		return nil, err
	}
	return payload, nil
}

// parseCSV converts raw snapshot bytes into a Record. The files come from
// the source site's own downloads and are Latin-1 with varying delimiters,
// so both are detected rather than assumed.
func parseCSV(data []byte) (*scraper.Record, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err == nil {
			data = decoded
		}
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	rec := &scraper.Record{}
	for _, row := range rows {
		cells := trimRow(row)
		if len(cells) == 0 {
			continue
		}
		switch {
		case len(rec.Header) == 0:
			rec.Header = append(rec.Header, cells)
		case isFooterRow(cells):
			rec.Footer = append(rec.Footer, cells)
		default:
			rec.Body = append(rec.Body, scraper.BodyGroup{
				ItemData: cells,
				SubItems: [][]string{},
			})
		}
	}
	return rec, nil
}

// detectDelimiter picks the most frequent candidate delimiter in the first
// line. Semicolon wins ties since it is what the site's exports use.
func detectDelimiter(data []byte) rune {
	line := string(data)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	best, bestCount := ';', strings.Count(line, ";")
	for _, candidate := range []rune{'\t', ','} {
		if n := strings.Count(line, string(candidate)); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

func isFooterRow(cells []string) bool {
	first := strings.ToLower(cells[0])
	for _, kw := range footerKeywords {
		if strings.Contains(first, kw) {
			return true
		}
	}
	return false
}

func trimRow(row []string) []string {
	cells := make([]string, 0, len(row))
	empty := true
	for _, c := range row {
		c = strings.TrimSpace(c)
		if c != "" {
			empty = false
		}
		cells = append(cells, c)
	}
	if empty {
		return nil
	}
	return cells
}
