package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Fatalf("unexpected API base URL default: %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected request timeout default: %s", cfg.RequestTimeout)
	}
	if cfg.StorageBackend != "memory" {
		t.Fatalf("unexpected storage backend default: %s", cfg.StorageBackend)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.fittech.test/api")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("HTTP_ADDR", ":15000")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:16379")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	if cfg.APIBaseURL != "https://api.fittech.test/api" {
		t.Fatalf("expected API_BASE_URL override, got %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("expected REQUEST_TIMEOUT override, got %s", cfg.RequestTimeout)
	}
	if cfg.HTTPAddr != ":15000" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("expected JWT_SECRET override, got %s", cfg.JWTSecret)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected ACCESS_TOKEN_TTL override, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 48*time.Hour {
		t.Fatalf("expected REFRESH_TOKEN_TTL override, got %s", cfg.RefreshTokenTTL)
	}
	if cfg.StorageBackend != "redis" {
		t.Fatalf("expected STORAGE_BACKEND override, got %s", cfg.StorageBackend)
	}
	if cfg.RedisAddr != "localhost:16379" {
		t.Fatalf("expected REDIS_ADDR override, got %s", cfg.RedisAddr)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected REDIS_DB override, got %d", cfg.RedisDB)
	}
}

func TestGetEnvDurationInvalid(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "not-a-duration")
	cfg := Load()
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected fallback TTL for invalid duration, got %s", cfg.AccessTokenTTL)
	}
}
