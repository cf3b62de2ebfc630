package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("BACKEND_BASE_URL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.BackendBaseURL != "" {
		t.Fatalf("expected backend base URL empty by default, got %s", cfg.BackendBaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected default session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.AppointmentsPath != "/appointments" {
		t.Fatalf("expected default appointments path, got %s", cfg.AppointmentsPath)
	}
	if cfg.DemoBackend {
		t.Fatal("expected demo backend disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BACKEND_BASE_URL", "https://api.example.vn")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.vn, https://staging.example.vn")
	t.Setenv("DEMO_BACKEND", "true")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.BackendBaseURL != "https://api.example.vn" {
		t.Fatalf("expected backend override, got %s", cfg.BackendBaseURL)
	}
	if cfg.BackendTimeout != 5*time.Second {
		t.Fatalf("expected backend timeout override, got %s", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected session TTL override, got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://staging.example.vn" {
		t.Fatalf("expected two trimmed CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.DemoBackend {
		t.Fatal("expected demo backend enabled")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "not-a-duration")
	t.Setenv("REDIS_TLS", "not-a-bool")
	cfg := Load()
	if cfg.BackendTimeout != 15*time.Second {
		t.Fatalf("expected fallback timeout, got %s", cfg.BackendTimeout)
	}
	if cfg.RedisTLS {
		t.Fatal("expected fallback RedisTLS=false")
	}
}
