package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const adminContextKey contextKey = "admin"

// SecretSource resolves the signing secret at request time. The secret
// lives in the store, not in process config, so rotation takes effect
// without a restart.
type SecretSource func(ctx context.Context) (string, error)

// Middleware guards a route group with the admin bearer token. Responses
// use the same success envelope as the handlers.
func Middleware(secrets SecretSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			secret, err := secrets(r.Context())
			if err != nil {
				writeAuthError(w, http.StatusInternalServerError, "server configuration error")
				return
			}

			claims, err := VerifyToken(secret, tokenStr)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, ErrTokenExpired) {
					msg = "token expired"
				}
				writeAuthError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), adminContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminSession returns the verified claims, or nil outside a guarded route.
func AdminSession(ctx context.Context) *AdminClaims {
	claims, _ := ctx.Value(adminContextKey).(*AdminClaims)
	return claims
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":false,"error":"` + msg + `"}`))
}
