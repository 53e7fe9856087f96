package api

import (
	"net/http"

	"channelsync-core/internal/domain"

	"github.com/rs/zerolog"
)

// UserContextMiddleware extracts the current user identity from the headers
// the surrounding session system sets (X-User-ID, X-Admin) and puts it on the
// request context. Requests without a user are rejected; all downstream
// queries are scoped by this identity.
func UserContextMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				http.Error(w, "X-User-ID header is required", http.StatusUnauthorized)
				return
			}

			ctx := domain.WithUserID(r.Context(), userID)
			if r.Header.Get("X-Admin") == "true" {
				ctx = domain.WithAdmin(ctx, true)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
