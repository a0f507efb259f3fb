package cache

import (
	"fmt"
	"strings"
)

// Tier names the four ordered data sources consulted during resolution.
type Tier string

const (
	TierShortTerm Tier = "short_term"
	TierLiveFetch Tier = "live_fetch"
	TierLongTerm  Tier = "long_term"
	TierStatic    Tier = "csv_fallback"
)

// TierAttempt records one consulted tier and why it produced nothing.
type TierAttempt struct {
	Tier   Tier   `json:"tier"`
	Reason string `json:"reason"`
}

// UnavailableError is returned when every tier has been exhausted. It carries
// the full attempt trail so the HTTP layer can build a diagnostic 503 that is
// distinguishable from client-input errors.
type UnavailableError struct {
	Endpoint string
	Attempts []TierAttempt
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	reasons := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		reasons = append(reasons, fmt.Sprintf("%s: %s", a.Tier, a.Reason))
	}
	return fmt.Sprintf("all data sources exhausted for %q (%s)",
		e.Endpoint, strings.Join(reasons, "; "))
}
