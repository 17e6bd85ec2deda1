package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultBackendBaseURL = "https://backend.leetcoders.uz/api/v1"

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	BackendBaseURL string
	// zero means no timeout
	BackendTimeout time.Duration

	RedisURL    string
	InflightTTL time.Duration

	DonationURL string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		BackendBaseURL: strings.TrimRight(getEnv("BACKEND_BASE_URL", DefaultBackendBaseURL), "/"),
		RedisURL:       os.Getenv("REDIS_URL"),
		DonationURL:    getEnv("DONATION_URL", "#"),
	}

	// Parsing durations
	var err error
	cfg.BackendTimeout, err = parseDuration(getEnv("BACKEND_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	cfg.InflightTTL, err = parseDuration(getEnv("INFLIGHT_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INFLIGHT_TTL: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in format ":port"
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, item := range parts {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
