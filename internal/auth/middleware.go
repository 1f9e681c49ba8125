package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"bank-ledger/internal/errors"
)

// Middleware resolves the caller from the Authorization header and
// stores the identity in the request context. Requests without a valid
// bearer token never reach the wrapped handler.
func Middleware(manager *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "no authorization header provided")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeUnauthorized(w, "authorization header must be a bearer token")
				return
			}

			identity, err := manager.ValidateToken(token)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": errors.NewAppError(errors.Unauthorized, message),
	})
}
