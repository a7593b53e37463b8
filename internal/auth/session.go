package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
)

// SessionTokenBytes is the entropy of a session token.
const SessionTokenBytes = 32

// ErrInvalidToken indicates a malformed session token.
var ErrInvalidToken = errors.New("invalid session token")

var tokenFormatRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{43}$`)

// NewSessionToken returns a random URL-safe token for the session cookie.
func NewSessionToken() (string, error) {
	b := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateToken checks the token shape before it is used as a cache key.
func ValidateToken(token string) error {
	if !tokenFormatRegex.MatchString(token) {
		return ErrInvalidToken
	}
	return nil
}
