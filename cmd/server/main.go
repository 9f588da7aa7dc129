package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	specpkg "github.com/daap14/squad/api"
	"github.com/daap14/squad/internal/api"
	"github.com/daap14/squad/internal/api/handler"
	"github.com/daap14/squad/internal/config"
	"github.com/daap14/squad/internal/database"
	"github.com/daap14/squad/internal/roster"
	"github.com/daap14/squad/internal/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()
	repo, pinger, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := api.NewRouter(api.RouterDeps{
		DBPinger:     pinger,
		StoreDriver:  cfg.StoreDriver,
		Version:      cfg.Version,
		Roster:       roster.NewService(repo),
		AdminKeyHash: cfg.AdminKeyHash,
		OpenAPISpec:  specpkg.OpenAPISpec,
		Registry:     registry,
	})
	if err != nil {
		slog.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	if cfg.AdminKeyHash == "" {
		slog.Warn("ADMIN_KEY_HASH is not set; mutating endpoints are open")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting squad server", "port", cfg.Port, "version", cfg.Version, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		closeStore()
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		closeStore()
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// openStore connects the configured driver, applies migrations and returns
// the team repository with a health pinger and a close function.
func openStore(ctx context.Context, cfg *config.Config) (team.Repository, handler.DBPinger, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return team.NewRepository(db.Pool()), db, db.Close, nil

	default:
		db, err := database.OpenSQLite(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() { _ = db.Close() }
		return team.NewSQLiteRepository(db), handler.PingFunc(db.PingContext), closeFn, nil
	}
}
