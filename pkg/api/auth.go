package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// basicAuth guards a handler with HTTP Basic authentication against a static
// credential set. Comparison is constant time over digests so neither
// username nor password length leaks.
func basicAuth(credentials map[string]string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || !credentialsMatch(credentials, user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="vitibrasil-api"`)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func credentialsMatch(credentials map[string]string, user, pass string) bool {
	want, ok := credentials[user]
	if !ok {
		// Burn a comparison anyway to keep unknown users on the same path.
		subtle.ConstantTimeCompare(digest(pass), digest(""))
		return false
	}
	return subtle.ConstantTimeCompare(digest(pass), digest(want)) == 1
}

func digest(s string) []byte {
	sum := sha256.Sum256([]byte(s))
	return sum[:]
}
