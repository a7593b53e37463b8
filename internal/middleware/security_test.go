package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		isDev  bool
		header string
		want   string
	}{
		{name: "nosniff", header: "X-Content-Type-Options", want: "nosniff"},
		{name: "frame deny", header: "X-Frame-Options", want: "DENY"},
		{name: "referrer", header: "Referrer-Policy", want: "strict-origin-when-cross-origin"},
		{name: "csp", header: "Content-Security-Policy", want: "default-src 'none'; frame-ancestors 'none'"},
		{name: "hsts in production", header: "Strict-Transport-Security", want: "max-age=31536000; includeSubDomains; preload"},
		{name: "no hsts in development", isDev: true, header: "Strict-Transport-Security", want: ""},
		{name: "no caching", header: "Cache-Control", want: "no-store"},
		{name: "opener policy", header: "Cross-Origin-Opener-Policy", want: "same-origin"},
		{name: "resource policy", header: "Cross-Origin-Resource-Policy", want: "same-origin"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			Security(SecurityConfig{IsDevelopment: tc.isDev})(okHandler()).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/persons/index", nil))

			if got := rec.Header().Get(tc.header); got != tc.want {
				t.Errorf("%s = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}

func TestResponseHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ResponseHeader(ResponseKeyHeader, ResponseKeyValue)(okHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Contacts-Key"); got != "contacts-manager" {
		t.Errorf("X-Contacts-Key = %q, want contacts-manager", got)
	}
}

func TestMaxBodySize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		maxBytes      int64
		contentLength int64
		body          string
		wantStatus    int
	}{
		{name: "small body allowed", maxBytes: 1024, contentLength: 10, body: "small body", wantStatus: http.StatusOK},
		{name: "declared length too large", maxBytes: 10, contentLength: 100, body: strings.Repeat("x", 100), wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			handler := MaxBodySize(tc.maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/countries/UploadFromExcel", strings.NewReader(tc.body))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
