package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/mailauth"
)

type apiKeyCtxKey struct{}

// APIKeyAuth authenticates requests with a bearer API token. The token's
// SHA-256 digest is looked up in the store and the matching key is placed in
// the request context; last_used_at is updated best-effort.
func APIKeyAuth(store mailauth.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, response{Success: false, Error: "missing api key"})
				return
			}

			key, err := store.GetAPIKeyByDigest(r.Context(), mailauth.DigestToken(token))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, response{Success: false, Error: "invalid api key"})
				return
			}

			// Usage tracking must never fail the request.
			_ = store.TouchAPIKey(r.Context(), key.ID, time.Now().UTC())

			ctx := context.WithValue(r.Context(), apiKeyCtxKey{}, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticatedKey returns the API key set by APIKeyAuth, or nil.
func AuthenticatedKey(ctx context.Context) *mailauth.APIKey {
	key, _ := ctx.Value(apiKeyCtxKey{}).(*mailauth.APIKey)
	return key
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return r.Header.Get("X-API-Key")
}
