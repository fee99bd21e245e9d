package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings read from the environment (and an optional .env file).
type Config struct {
	DBPath      string // SQLite file; empty means the XDG default
	DatabaseURL string // Postgres; when set the server uses it instead of SQLite
	Addr        string
	Remote      string // base URL of a prio server for the TUI and CLI

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateLimit     int
	RateWindow    time.Duration

	LogLevel string
	LogJSON  bool
	LogFile  string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath:        os.Getenv("PRIO_DB_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Addr:          envOr("PRIO_ADDR", ":8080"),
		Remote:        os.Getenv("PRIO_REMOTE"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		RateLimit:     envInt("PRIO_RATE_LIMIT", 60),
		RateWindow:    time.Duration(envInt("PRIO_RATE_WINDOW_SECONDS", 60)) * time.Second,
		LogLevel:      envOr("PRIO_LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("PRIO_LOG_JSON") == "true",
		LogFile:       os.Getenv("PRIO_LOG_FILE"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt returns a non-negative integer from key, or fallback when unset or invalid.
func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
