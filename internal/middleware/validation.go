package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// IsLocalURL reports whether raw is a path on this site, safe to redirect to
// after login. Absolute URLs, scheme-relative URLs ("//host") and
// backslash tricks ("/\host") are rejected.
func IsLocalURL(raw string) bool {
	if raw == "" || raw[0] != '/' {
		return false
	}
	if len(raw) > 1 && (raw[1] == '/' || raw[1] == '\\') {
		return false
	}
	if strings.ContainsAny(raw, "\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

type jsonError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSONError writes the error body shared with the handlers.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Code: code})
}
