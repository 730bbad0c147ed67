package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	// API client
	APIBaseURL     string
	RequestTimeout time.Duration

	// Dev auth server
	HTTPAddr        string
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Storage
	StorageBackend string // memory | redis | postgres
	RedisAddr      string
	RedisPass      string
	RedisDB        int
	DatabaseURL    string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:5000/api"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		HTTPAddr:        getEnv("HTTP_ADDR", ":5000"),
		JWTSecret:       getEnv("JWT_SECRET", "fittech-dev-secret"),
		JWTIssuer:       getEnv("JWT_ISSUER", "fittech-devauth"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 720*time.Hour),

		StorageBackend: getEnv("STORAGE_BACKEND", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:      getEnv("REDIS_PASS", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
