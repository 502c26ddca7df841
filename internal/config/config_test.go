package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gullyscore/cricket-scoring-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	yaml := `
logger:
  level: info
  env: prod

server:
  host: 0.0.0.0
  port: 18080
  read_timeout: 10
  write_timeout: 10
  shutdown_timeout: 5

postgres:
  host: 127.0.0.1
  port: 5432
  user: scorer
  password: placeholder
  dbname: cricket
  sslmode: disable
  max_conns: 5
  min_conns: 1
  max_conn_lifetime: 60
  max_conn_idle_time: 30
  health_check_period: 15
`
	path := writeTempConfig(t, yaml)

	// Secrets come from the environment with the canonical APP_ prefix.
	t.Setenv("APP_POSTGRES_PASSWORD", "supersecret")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 18080 {
		t.Fatalf("expected server.port 18080, got %d", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "127.0.0.1" || cfg.Postgres.DBName != "cricket" || cfg.Postgres.SSLMode != "disable" {
		t.Fatalf("yaml values not loaded: %+v", cfg.Postgres)
	}
	if cfg.Postgres.Password != "supersecret" {
		t.Fatalf("env override not applied, got password=%q", cfg.Postgres.Password)
	}
	if cfg.Postgres.MaxConns != 5 || cfg.Postgres.MinConns != 1 {
		t.Fatalf("pool tuning not loaded: %+v", cfg.Postgres)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Env != "prod" {
		t.Fatalf("logger section not loaded: %+v", cfg.Logger)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}
