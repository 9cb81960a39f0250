package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"lakegate/internal/domain"
)

// Auth authenticates each request, trying a JWT Bearer token first and
// falling back to an X-API-Key header. On success the resolved identity is
// stored in the request context as a domain.ContextPrincipal; on failure the
// request is rejected with 401 before it reaches any handler.
func Auth(validator JWTValidator, apiKeys domain.APIKeyRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") && validator != nil {
				tokenStr := strings.TrimPrefix(auth, "Bearer ")
				claims, err := validator.Validate(r.Context(), tokenStr)
				if err == nil && claims.Subject != "" {
					ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{
						Name: claims.Subject,
						Type: "user",
					})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if rawKey := r.Header.Get("X-API-Key"); rawKey != "" && apiKeys != nil {
				sum := sha256.Sum256([]byte(rawKey))
				key, err := apiKeys.GetByHash(r.Context(), hex.EncodeToString(sum[:]))
				if err == nil {
					ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{
						Name: key.PrincipalName,
						Type: "service_principal",
					})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": "unauthorized: provide a valid JWT Bearer token or API key",
			})
		})
	}
}
