package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"trip-planner-service/internal/platform/db"
)

// Config holds the process configuration read from the environment.
type Config struct {
	Port string

	// Database
	DBDriver    db.Dialect
	DBPath      string
	DatabaseURL string

	// OpenRouteService; distance lookups fall back to heuristics without a key.
	ORSAPIKey        string
	ORSRatePerSecond float64

	// Optional Redis distance cache
	RedisURL string
	RedisTTL time.Duration

	RulesPath     string
	LogLevel      string
	CORSOrigins   []string
	LookupTimeout time.Duration
}

// Load reads configuration from environment variables with defaults for local runs.
func Load() (Config, error) {
	driver, err := db.ParseDialect(Get("DB_DRIVER", "sqlite"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Config{
		Port:             Get("PORT", "8080"),
		DBDriver:         driver,
		DBPath:           Get("DB_PATH", "data/app.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ORSAPIKey:        strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSRatePerSecond: getFloat("ORS_RATE_PER_SECOND", 0.6),
		RedisURL:         os.Getenv("REDIS_URL"),
		RedisTTL:         getDuration("REDIS_TTL", 24*time.Hour),
		RulesPath:        os.Getenv("HOS_RULES_PATH"),
		LogLevel:         Get("LOG_LEVEL", "info"),
		CORSOrigins:      splitList(Get("CORS_ORIGINS", "*")),
		LookupTimeout:    getDuration("LOOKUP_TIMEOUT", 10*time.Second),
	}

	if cfg.DBDriver == db.Postgres && strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Config{}, fmt.Errorf("load config: DATABASE_URL is required when DB_DRIVER=postgres")
	}
	if cfg.ORSRatePerSecond <= 0 {
		return Config{}, fmt.Errorf("load config: ORS_RATE_PER_SECOND must be positive, got %v", cfg.ORSRatePerSecond)
	}
	if cfg.LookupTimeout <= 0 {
		return Config{}, fmt.Errorf("load config: LOOKUP_TIMEOUT must be positive, got %v", cfg.LookupTimeout)
	}

	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == db.Postgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
