package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string

	// SessionRestoreTimeout bounds the wait for a live session lookup during
	// startup resolution. A timeout abandons the attempt, it does not cancel
	// the underlying call.
	SessionRestoreTimeout time.Duration
	// ProfileFetchTimeout bounds the wait for the canonical profile row.
	// Shorter than the session timeout since it is a simpler query.
	ProfileFetchTimeout time.Duration
	// ProfileCacheTTL controls how long resolved profiles stay in their
	// cache slot.
	ProfileCacheTTL time.Duration
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		MySQLDSN:              getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/cleanops?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		RedisPass:             os.Getenv("REDIS_PASSWORD"),
		JWTSecret:             getEnv("JWT_SECRET", "change-me"),
		SessionRestoreTimeout: getEnvMillis("SESSION_RESTORE_TIMEOUT_MS", 8000),
		ProfileFetchTimeout:   getEnvMillis("PROFILE_FETCH_TIMEOUT_MS", 5000),
		ProfileCacheTTL:       getEnvMillis("PROFILE_CACHE_TTL_MS", 24*60*60*1000),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvMillis(key string, defMillis int) time.Duration {
	return time.Duration(getEnvInt(key, defMillis)) * time.Millisecond
}
