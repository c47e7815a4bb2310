package middleware

import (
	"context"
	"net/http"

	"github.com/citygrid/sambag-alert-be/internal/auth"
	"github.com/citygrid/sambag-alert-be/internal/http/respond"
)

type ctxKey string

const userIDKey ctxKey = "auth_user_id"

// UserID extracts the authenticated user's identifier from the context.
// Empty when the request did not pass RequireSession.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// RequireSession validates the access-token cookie and injects the bound user
// identifier into the request context. Every failure path is terminal: the
// request either proceeds with an identity or receives a 401, never neither.
func RequireSession(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.AccessCookieName)
		if err != nil || cookie.Value == "" {
			respond.Error(w, http.StatusUnauthorized, "Unauthorized - No token found")
			return
		}

		userID, err := tokens.VerifyAccess(cookie.Value)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "Unauthorized - Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
