package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daap14/squad/internal/api/handler"
	"github.com/daap14/squad/internal/api/middleware"
	"github.com/daap14/squad/internal/roster"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger     handler.DBPinger
	StoreDriver  string
	Version      string
	Roster       *roster.Service
	AdminKeyHash string
	OpenAPISpec  []byte
	// Registry receives the HTTP metrics and backs GET /metrics. Nil
	// disables both.
	Registry *prometheus.Registry
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)

	// Metrics sit outside Recovery so recovered panics are counted as 500s.
	if deps.Registry != nil {
		metrics, err := middleware.NewMetrics(deps.Registry)
		if err != nil {
			return nil, err
		}
		r.Use(metrics.Handler)
	}

	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	if deps.DBPinger != nil {
		healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.StoreDriver, deps.Version)
		r.Get("/health", healthHandler.ServeHTTP)
	}

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.Roster != nil {
		teamHandler := handler.NewTeamHandler(deps.Roster)
		requireAdmin := middleware.AdminKey(deps.AdminKeyHash)

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.List)
			r.Get("/{id}", teamHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", teamHandler.Create)
				r.Delete("/{id}", teamHandler.Delete)
				r.Post("/{id}/players", teamHandler.AddPlayer)
			})
		})
	}

	return r, nil
}
