package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "DB_DSN", "DB_CONN_IDLE_SECONDS", "DB_CONN_LIFETIME_SECONDS",
		"SHUTDOWN_TIMEOUT_SECONDS", "LOG_LEVEL", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.DBMaxConnIdleTime != 5*time.Minute {
		t.Fatalf("unexpected idle time %s", cfg.DBMaxConnIdleTime)
	}
	if cfg.DBMaxConnLifetime != 30*time.Minute {
		t.Fatalf("unexpected lifetime %s", cfg.DBMaxConnLifetime)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_CONN_IDLE_SECONDS", "60")
	t.Setenv("DB_CONN_LIFETIME_SECONDS", "120")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.DBMaxConnIdleTime != time.Minute {
		t.Fatalf("unexpected idle time %s", cfg.DBMaxConnIdleTime)
	}
	if cfg.DBMaxConnLifetime != 2*time.Minute {
		t.Fatalf("unexpected lifetime %s", cfg.DBMaxConnLifetime)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestFromEnvBadDuration(t *testing.T) {
	t.Setenv("DB_CONN_IDLE_SECONDS", "soon")

	cfg := FromEnv()
	if cfg.DBMaxConnIdleTime != 5*time.Minute {
		t.Fatalf("an unparseable duration must fall back to the default, got %s", cfg.DBMaxConnIdleTime)
	}
}
