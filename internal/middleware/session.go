package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/contactsmgr/contacts/internal/auth"
	"github.com/contactsmgr/contacts/internal/model"
)

// Paths the access middleware redirects to.
const (
	LoginPath      = "/Account/Login"
	PersonsIndex   = "/persons/index"
	ReturnURLParam = "ReturnUrl"
)

// SessionLoader resolves a session cookie value to a live session.
type SessionLoader interface {
	GetSession(ctx context.Context, token string) (*model.Session, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger     *slog.Logger
	Sessions   SessionLoader
	CookieName string
}

// LoadSession attaches the signed-in session, if any, to the request context.
// Anonymous requests pass through unchanged; lookup failures are logged and
// treated as anonymous.
func LoadSession(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := cfg.Sessions.GetSession(r.Context(), cookie.Value)
			if err != nil {
				cfg.Logger.Warn("session lookup failed",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			setLogUserID(r.Context(), session.UserID.String())
			next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(r.Context(), session)))
		})
	}
}

// RequireLogin sends anonymous requests to the login page with a ReturnUrl
// pointing back at the requested path.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.SessionFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		target := LoginPath + "?" + url.Values{ReturnURLParam: {r.URL.RequestURI()}}.Encode()
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
}

// RequireAnonymous keeps signed-in users away from the register and login
// pages by sending them to the persons list.
func RequireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.SessionFromContext(r.Context()) != nil {
			http.Redirect(w, r, PersonsIndex, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests whose session holds none of roles.
// Must be applied after RequireLogin.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := auth.SessionFromContext(r.Context())
			if session == nil {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			for _, role := range roles {
				if session.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions. Required role: "+roles[0])
		})
	}
}
