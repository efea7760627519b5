// internal/config/config.go
//
// Typed application configuration read from environment variables with
// development defaults. main loads .env first (godotenv), so local
// overrides come from a file while deployments use real env vars.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port         string
	DBPath       string
	RedisURL     string        // empty selects the in-memory session registry
	SessionTTL   time.Duration // idle session expiry
	JWTSecret    string
	JWTExpiresIn time.Duration
	CookieName   string
	ClientOrigin string
	LogLevel     string
	Production   bool
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "./data/app.db"),
		RedisURL:     strings.TrimSpace(os.Getenv("REDIS_URL")),
		SessionTTL:   getDuration("SESSION_TTL", time.Hour),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresIn: time.Duration(getInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "wurdsmyth_token"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Production:   os.Getenv("APP_ENV") == "production",
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
