package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Provenance identifies which tier supplied the payload of an Entry.
type Provenance int

const (
	// Fresh means the payload came from a successful live fetch.
	Fresh Provenance = iota

	// ShortTerm means the payload came from the short-TTL Redis tier.
	ShortTerm

	// LongTerm means the payload came from the long-TTL Redis tier.
	LongTerm

	// StaticFallback means the payload came from the local CSV store.
	StaticFallback
)

// String returns the tier name used in logs and metrics.
func (p Provenance) String() string {
	switch p {
	case Fresh:
		return "fresh"
	case ShortTerm:
		return "short_term"
	case LongTerm:
		return "fallback"
	case StaticFallback:
		return "csv_fallback"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the provenance as the API wire value of the
// response's "cached" field: false for fresh data, otherwise the tier name.
func (p Provenance) MarshalJSON() ([]byte, error) {
	if p == Fresh {
		return []byte("false"), nil
	}
	return json.Marshal(p.String())
}

// Entry is a resolved payload together with its provenance. Entries are
// created by the Coordinator and immutable once built; the volatile tiers
// drop them by TTL expiry, never by mutation.
type Entry struct {
	// Data is the structured record payload, already JSON-encoded.
	Data json.RawMessage `json:"data"`

	// Provenance identifies the tier that supplied Data.
	Provenance Provenance `json:"cached"`

	// StoredAt is when the payload was originally produced.
	StoredAt time.Time `json:"stored_at"`
}

// Age returns how long ago the payload was produced.
func (e *Entry) Age() time.Duration {
	return time.Since(e.StoredAt)
}

// envelope is the wire format stored in the volatile tiers. Provenance is
// deliberately absent: it is a property of where an entry was found, assigned
// by the Coordinator at read time.
type envelope struct {
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"stored_at"`
}

func encodeEntry(e *Entry) ([]byte, error) {
	raw, err := json.Marshal(envelope{Data: e.Data, StoredAt: e.StoredAt})
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return raw, nil
}

func decodeEntry(raw []byte, p Provenance) (*Entry, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("decode cache entry: empty payload")
	}
	return &Entry{Data: env.Data, Provenance: p, StoredAt: env.StoredAt}, nil
}
