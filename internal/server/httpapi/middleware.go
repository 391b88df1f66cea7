package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avoronin/placekeeper/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// callerID returns the authenticated caller's identity, if any.
func callerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// requireAuth validates the bearer token and stores the caller identity in
// the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeMessage(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, h.jwtSecret)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withStoreTimeout bounds each request's store operations by the configured
// timeout; expiry surfaces as a retryable unavailable error downstream.
func (h *Handler) withStoreTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.storeTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
