package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// keyParams is the per-endpoint allow-list of parameters that participate in
// key derivation. Anything outside the list is ignored for key purposes;
// request validation rejects unknown parameters before they reach the core.
var keyParams = map[string][]string{
	"producao":        {"sub_option", "year"},
	"processamento":   {"sub_option", "year"},
	"comercializacao": {"sub_option", "year"},
	"importacao":      {"sub_option", "year"},
	"exportacao":      {"sub_option", "year"},
}

// BuildKey derives a deterministic, collision-resistant cache key from an
// endpoint name and its query parameters. Two logically identical requests
// (same endpoint, same parameter values, any supplied ordering or key casing)
// produce the same key. The key is tier-agnostic; the Coordinator prepends a
// tier prefix before addressing Redis.
//
// Format: <endpoint>:<hex SHA-256 of canonical parameter serialization>
func BuildKey(endpoint string, params map[string]string) string {
	allowed := keyParams[endpoint]

	filtered := make(map[string]string, len(allowed))
	for name, value := range params {
		name = strings.ToLower(name)
		for _, a := range allowed {
			if name == a {
				filtered[name] = value
				break
			}
		}
	}

	// Canonical order: lexicographic by parameter name.
	names := make([]string, 0, len(filtered))
	for name := range filtered {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	for _, name := range names {
		fmt.Fprintf(&b, "\n%s=%s", name, filtered[name])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return endpoint + ":" + hex.EncodeToString(sum[:])
}
