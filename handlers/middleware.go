package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/session"
)

type contextKey string

const SessionKey contextKey = "session"

// GetSession extracts the caller's session from the request context.
func GetSession(r *http.Request) *session.Session {
	if val, ok := r.Context().Value(SessionKey).(*session.Session); ok {
		return val
	}
	return nil
}

// SessionMiddleware attaches the session for the authenticated record and
// keeps it fresh. A failed refresh is logged and the request proceeds on
// the previous identity, unless the auth record is gone.
func SessionMiddleware(sessions *session.Manager, logger *slog.Logger) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return jsonError(e, http.StatusUnauthorized, "Authentication required")
		}

		s := sessions.For(e.Auth)
		if err := s.EnsureFresh(e.Request.Context()); err != nil {
			if errors.Is(err, session.ErrRevoked) {
				return jsonError(e, http.StatusUnauthorized, "Session is no longer valid")
			}
			logger.Warn("middleware: session refresh failed", "owner", s.OwnerID(), "error", err)
		}

		ctx := context.WithValue(e.Request.Context(), SessionKey, s)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
