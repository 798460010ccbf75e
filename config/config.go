package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once at startup and passed down explicitly.
type Config struct {
	Port string

	DBDriver   string
	DBURL      string
	DBUser     string
	DBPass     string
	DBHost     string
	DBPort     string
	DBName     string
	DBLogLevel string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int

	AdminUsername string
	AdminPassword string

	LogFormat string
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	cfg := Config{
		Port:          envOrDefault("PORT", "8080"),
		DBDriver:      strings.ToLower(envOrDefault("DB_DRIVER", "mysql")),
		DBURL:         envOrDefault("DATABASE_URL", envOrDefault("MYSQL_URL", "")),
		DBUser:        envOrDefault("DB_USER", "root"),
		DBPass:        envOrDefault("DB_PASS", ""),
		DBHost:        envOrDefault("DB_HOST", "127.0.0.1"),
		DBPort:        envOrDefault("DB_PORT", ""),
		DBName:        envOrDefault("DB_NAME", "hotel_booking"),
		DBLogLevel:    strings.ToLower(envOrDefault("DB_LOG_LEVEL", "warn")),
		JWTSecret:     envOrDefault("JWT_SECRET", ""),
		CORSOrigins:   parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		AdminUsername: envOrDefault("ADMIN_USERNAME", ""),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		LogFormat:     strings.ToLower(envOrDefault("LOG_FORMAT", "text")),
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(envOrDefault("JWT_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, errors.New("invalid JWT_TTL: must be positive")
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "2"), 64); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(envOrDefault("RATE_LIMIT_BURST", "4")); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return Config{}, fmt.Errorf("unsupported DB_LOG_LEVEL %q", cfg.DBLogLevel)
	}

	return cfg, nil
}

// ValidateServe checks what the HTTP server needs beyond a database.
func (c Config) ValidateServe() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	return nil
}
