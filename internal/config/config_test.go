package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("WINDTURBINE_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Fatalf("driver = %q", cfg.DBDriver)
	}
	if cfg.JWTSecret != "" {
		t.Fatalf("secret = %q", cfg.JWTSecret)
	}
}

func TestLoadRejectsPostgresWithoutDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("WINDTURBINE_CONFIG", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("WINDTURBINE_CONFIG", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadYAMLOverridesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http_addr: \":9090\"\ndb_driver: memory\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("WINDTURBINE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("addr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.DBDriver != DriverMemory {
		t.Fatalf("driver = %q, want memory", cfg.DBDriver)
	}
}
