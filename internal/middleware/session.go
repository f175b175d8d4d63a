package middleware

import (
	"context"
	"net/http"

	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/sessions"
)

// SessionCookieName is the cookie carrying the opaque session id
const SessionCookieName = "session_id"

const sessionKey contextKey = "session"

// SessionMiddleware resolves the session cookie against the store and, when
// it matches a live session, attaches the SessionContext to the request
// context. Requests without a valid session proceed as anonymous.
func SessionMiddleware(store *sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			identity, ok := store.Get(cookie.Value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no resolved identity. Write
// operations must never proceed with a null author, so this runs before
// every create/update/delete handler.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetSessionContext retrieves the resolved identity from context
func GetSessionContext(ctx context.Context) (*models.SessionContext, bool) {
	identity, ok := ctx.Value(sessionKey).(*models.SessionContext)
	return identity, ok
}
