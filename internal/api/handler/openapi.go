package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/daap14/squad/internal/api/middleware"
	"github.com/daap14/squad/internal/api/response"
)

// OpenAPIHandler serves the roster API description as JSON.
type OpenAPIHandler struct {
	rawYAML []byte
	once    sync.Once
	spec    []byte
	err     error
}

// NewOpenAPIHandler creates a handler that converts the YAML document to
// JSON on first request and serves the cached result afterwards.
func NewOpenAPIHandler(yamlSpec []byte) *OpenAPIHandler {
	return &OpenAPIHandler{rawYAML: yamlSpec}
}

// ServeHTTP writes the converted document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		h.spec, h.err = yaml.YAMLToJSON(h.rawYAML)
	})

	if h.err != nil {
		slog.Error("failed to convert OpenAPI document to JSON", "error", h.err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to convert OpenAPI document", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.spec); err != nil {
		slog.Error("failed to write OpenAPI response", "error", err)
	}
}
