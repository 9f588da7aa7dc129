package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/daap14/squad/internal/api/middleware"
)

const testAdminKey = "squad_admin_key"

func hashKey(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminKey_DisabledWithoutHash(t *testing.T) {
	handler := middleware.AdminKey("")(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminKey(t *testing.T) {
	hash := hashKey(t, testAdminKey)

	tests := []struct {
		name       string
		key        string
		wantStatus int
		wantMsg    string
	}{
		{name: "valid key", key: testAdminKey, wantStatus: http.StatusOK},
		{name: "missing key", key: "", wantStatus: http.StatusUnauthorized, wantMsg: "API key is required"},
		{name: "wrong key", key: "squad_wrong", wantStatus: http.StatusUnauthorized, wantMsg: "Invalid API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			handler := middleware.AdminKey(hash)(okHandler())
			req := httptest.NewRequest(http.MethodPost, "/teams", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()

			// Act
			handler.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg == "" {
				return
			}
			var env map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			apiErr := env["error"].(map[string]interface{})
			assert.Equal(t, "UNAUTHORIZED", apiErr["code"])
			assert.Equal(t, tt.wantMsg, apiErr["message"])
		})
	}
}
