package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/daap14/squad/internal/api/middleware"
	"github.com/daap14/squad/internal/api/response"
)

// DBPinger reports whether the roster store is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to DBPinger.
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	driver  string
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, driver, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		driver:  driver,
		version: version,
	}
}

type storeStatus struct {
	Driver    string `json:"driver"`
	Connected bool   `json:"connected"`
}

type healthData struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Store   storeStatus `json:"store"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	connected := true
	if err := h.db.Ping(ctx); err != nil {
		slog.Warn("store ping failed", "error", err, "driver", h.driver)
		status = "degraded"
		connected = false
	}

	data := healthData{
		Status:  status,
		Version: h.version,
		Store: storeStatus{
			Driver:    h.driver,
			Connected: connected,
		},
	}

	response.Success(w, http.StatusOK, data, requestID)
}
