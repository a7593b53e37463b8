package auth

import (
	"context"

	"github.com/contactsmgr/contacts/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const sessionContextKey contextKey = "session"

// ContextWithSession adds the signed-in session to the context.
func ContextWithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFromContext retrieves the session from the context.
// Returns nil for anonymous requests.
func SessionFromContext(ctx context.Context) *model.Session {
	s, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok {
		return nil
	}
	return s
}

// UserIDFromContext returns the signed-in user's ID, or "" when anonymous.
func UserIDFromContext(ctx context.Context) string {
	s := SessionFromContext(ctx)
	if s == nil {
		return ""
	}
	return s.UserID.String()
}
