package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/daap14/squad/internal/api/response"
)

// AdminKey is middleware that requires the X-API-Key header to match the
// given bcrypt hash. An empty hash disables the check.
func AdminKey(keyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if keyHash == "" {
			return next
		}
		hash := []byte(keyHash)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			rawKey := r.Header.Get("X-API-Key")
			if rawKey == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			if err := bcrypt.CompareHashAndPassword(hash, []byte(rawKey)); err != nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
