// Package config loads service configuration from the environment,
// optionally overridden by a yaml file named in WINDTURBINE_CONFIG.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config defines service configuration.
type Config struct {
	HTTPAddr   string `yaml:"http_addr"`
	DBDriver   string `yaml:"db_driver"`
	DBDSN      string `yaml:"db_dsn"`
	SQLitePath string `yaml:"sqlite_path"`

	// JWTSecret enables auth when set; empty runs the API open.
	JWTSecret string `yaml:"jwt_secret"`
}

// Load builds config from env defaults, then applies the yaml file
// when WINDTURBINE_CONFIG points at one.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:   getenvDefault("HTTP_ADDR", ":8080"),
		DBDriver:   getenvDefault("DB_DRIVER", DriverSQLite),
		DBDSN:      getenvDefault("DB_DSN", os.Getenv("DATABASE_URL")),
		SQLitePath: getenvDefault("SQLITE_PATH", filepath.FromSlash("var/windturbine.db")),
		JWTSecret:  os.Getenv("AUTH_JWT_SECRET"),
	}

	if path := os.Getenv("WINDTURBINE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config: sqlite path required")
		}
	case DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("config: db dsn required for postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown db driver %q", c.DBDriver)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("config: http addr required")
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
