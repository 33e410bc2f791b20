package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envVars = []string{
	"VALUECHARTS_PORT", "VALUECHARTS_METRICS_PORT", "VALUECHARTS_ADMIN_TOKEN",
	"VALUECHARTS_DATABASE_URL", "VALUECHARTS_REDIS_ADDR", "VALUECHARTS_REDIS_PASSWORD",
	"VALUECHARTS_HERMES_URL", "VALUECHARTS_LOG_LEVEL", "VALUECHARTS_LOG_FORMAT",
	"VALUECHARTS_SESSION_IDLE_TIMEOUT_MS", "VALUECHARTS_HISTORY_MAX_DEPTH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Hermes.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Hermes.URL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected redis disabled by default, got %s", cfg.Redis.Addr)
	}
	if cfg.History.MaxDepth != 0 {
		t.Errorf("expected unbounded history, got %d", cfg.History.MaxDepth)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.IdleTimeout() != 30*time.Minute {
		t.Errorf("expected 30m idle timeout, got %v", cfg.IdleTimeout())
	}
	if cfg.SweepInterval() != time.Minute {
		t.Errorf("expected 1m sweep, got %v", cfg.SweepInterval())
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("expected 1h cache ttl, got %v", cfg.CacheTTL())
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "valuecharts.yaml")
	yamlData := `
server:
  port: 9000
  admin_token: from-file
redis:
  addr: localhost:6379
  ttl_seconds: 60
history:
  max_depth: 50
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VALUECHARTS_ADMIN_TOKEN", "from-env")
	t.Setenv("VALUECHARTS_HISTORY_MAX_DEPTH", "10")
	t.Setenv("VALUECHARTS_SESSION_IDLE_TIMEOUT_MS", "5000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000 from file, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port kept, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "from-env" {
		t.Errorf("expected env to override file, got %s", cfg.Server.AdminToken)
	}
	if cfg.History.MaxDepth != 10 {
		t.Errorf("expected max depth 10, got %d", cfg.History.MaxDepth)
	}
	if cfg.IdleTimeout() != 5*time.Second {
		t.Errorf("expected 5s idle timeout, got %v", cfg.IdleTimeout())
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("expected 1m cache ttl, got %v", cfg.CacheTTL())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug from file, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadBadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("VALUECHARTS_PORT", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric port")
	}
}
