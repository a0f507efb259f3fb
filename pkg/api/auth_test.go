package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBasicAuth(t *testing.T) {
	credentials := map[string]string{"user1": "senha1", "user2": "senha2"}
	handler := basicAuth(credentials, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		user       string
		pass       string
		omit       bool
		wantStatus int
	}{
		{"valid first user", "user1", "senha1", false, http.StatusOK},
		{"valid second user", "user2", "senha2", false, http.StatusOK},
		{"wrong password", "user1", "senha2", false, http.StatusUnauthorized},
		{"unknown user", "intruso", "senha1", false, http.StatusUnauthorized},
		{"empty password", "user1", "", false, http.StatusUnauthorized},
		{"no credentials", "", "", true, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if !tt.omit {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if got := rr.Header().Get("WWW-Authenticate"); got == "" {
					t.Error("missing WWW-Authenticate challenge")
				}
			}
		})
	}
}
