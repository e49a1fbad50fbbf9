package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cusip")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Source.Kind != "local" {
		t.Errorf("Source.Kind = %q, want %q", cfg.Source.Kind, "local")
	}
	if cfg.Source.S3Prefix != "pip/" {
		t.Errorf("Source.S3Prefix = %q, want %q", cfg.Source.S3Prefix, "pip/")
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("Database.MaxConns = %d, want %d", cfg.Database.MaxConns, 10)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cusip")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "45s")
	t.Setenv("FILE_DIR", "/srv/pip")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ShutdownTimeout != 45*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 45s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Source.Dir != "/srv/pip" {
		t.Errorf("Source.Dir = %q, want %q", cfg.Source.Dir, "/srv/pip")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() without DATABASE_URL should fail")
	}
}

func TestLoad_AlternateEnvVar(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "postgres://localhost/cusip")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != "postgres://localhost/cusip" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
}

func TestValidate_S3RequiresBucket(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cusip")
	t.Setenv("FILE_SOURCE", "s3")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "S3_BUCKET") {
		t.Fatalf("Load() error = %v, want S3_BUCKET validation failure", err)
	}
}

func TestValidate_UnknownSourceKind(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cusip")
	t.Setenv("FILE_SOURCE", "ftp")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "FILE_SOURCE") {
		t.Fatalf("Load() error = %v, want FILE_SOURCE validation failure", err)
	}
}

func TestValidate_BadDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cusip")
	t.Setenv("SERVER_READ_TIMEOUT", "fifteen")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with invalid duration should fail")
	}
}

func TestAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := c.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:9000")
	}
}
