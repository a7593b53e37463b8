package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{name: "nothing configured", allowed: nil, origin: "https://ui.example.com", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "listed origin", allowed: []string{"https://ui.example.com"}, origin: "https://ui.example.com", method: http.MethodGet, wantStatus: http.StatusOK, wantOrigin: "https://ui.example.com"},
		{name: "other origin preflight", allowed: []string{"https://ui.example.com"}, origin: "https://evil.com", method: http.MethodOptions, wantStatus: http.StatusForbidden},
		{name: "preflight", allowed: []string{"https://ui.example.com"}, origin: "https://ui.example.com", method: http.MethodOptions, wantStatus: http.StatusNoContent, wantOrigin: "https://ui.example.com"},
		{name: "wildcard subdomain", allowed: []string{"*.example.com"}, origin: "https://hr.example.com", method: http.MethodGet, wantStatus: http.StatusOK, wantOrigin: "https://hr.example.com"},
		{name: "wildcard rejects lookalike", allowed: []string{"*.example.com"}, origin: "https://notexample.com", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "same origin", allowed: []string{"https://ui.example.com"}, origin: "", method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultCORSConfig()
			cfg.AllowedOrigins = tc.allowed

			req := httptest.NewRequest(tc.method, "/persons/index", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(cfg)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tc.wantOrigin)
			}
		})
	}
}

func TestCORS_PreflightAllowsSessionCookie(t *testing.T) {
	t.Parallel()
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://ui.example.com"}

	req := httptest.NewRequest(http.MethodOptions, "/persons/create", nil)
	req.Header.Set("Origin", "https://ui.example.com")
	rec := httptest.NewRecorder()
	CORS(cfg)(okHandler()).ServeHTTP(rec, req)

	want := map[string]string{
		"Access-Control-Allow-Methods":     "GET, POST, OPTIONS",
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Max-Age":           "86400",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}
