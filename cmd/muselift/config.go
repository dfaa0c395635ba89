package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
// Upstream credentials are optional: a missing key degrades the affected
// adapter to empty results instead of failing startup.
type Config struct {
	Addr           string
	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	LastFMAPIKey      string
	HuggingFaceAPIKey string

	CacheTTL        time.Duration
	UpstreamTimeout time.Duration
}

func loadConfig() (Config, error) {
	_ = godotenv.Load()

	cacheTTL, err := envDuration("CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}
	upstreamTimeout, err := envDuration("UPSTREAM_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Addr:              fmt.Sprintf(":%s", envOrDefault("PORT", "8080")),
		AllowedOrigins:    parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		LastFMAPIKey:      os.Getenv("LASTFM_API_KEY"),
		HuggingFaceAPIKey: os.Getenv("HUGGINGFACE_API_KEY"),
		CacheTTL:          cacheTTL,
		UpstreamTimeout:   upstreamTimeout,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
