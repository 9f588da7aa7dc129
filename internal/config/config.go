package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Supported values for StoreDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	SQLiteDSN   string `envconfig:"SQLITE_DSN" default:"file:squad?mode=memory&cache=shared&_pragma=foreign_keys(1)"`
	Version     string `envconfig:"VERSION" default:"dev"`
	// AdminKeyHash is the bcrypt hash of the key required on mutating
	// endpoints. Empty disables the check.
	AdminKeyHash string `envconfig:"ADMIN_KEY_HASH" default:""`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %q", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	return &cfg, nil
}
