package api

import (
	"encoding/json"
	"net/http"

	"github.com/vitidata/vitibrasil-api/pkg/cache"
)

// errorBody is the uniform error payload. Details is present only on
// validation failures; Attempts only on tier exhaustion.
type errorBody struct {
	Error    string              `json:"error"`
	Details  []string            `json:"details,omitempty"`
	Attempts []cache.TierAttempt `json:"attempts,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeValidationError(w http.ResponseWriter, details []string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request", Details: details})
}

func writeUnavailable(w http.ResponseWriter, err *cache.UnavailableError) {
	writeJSON(w, http.StatusServiceUnavailable, errorBody{
		Error:    "all data sources exhausted",
		Attempts: err.Attempts,
	})
}
