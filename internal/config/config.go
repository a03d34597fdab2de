package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	GeminiModel   string
	OracleTimeout time.Duration

	RateLimitRedeem time.Duration

	LiveClassReminderCron string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		LiveClassReminderCron: getEnv("LIVE_CLASS_REMINDER_CRON", "@every 5m"),
	}

	var err error
	cfg.OracleTimeout, err = time.ParseDuration(getEnv("ORACLE_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORACLE_TIMEOUT: %w", err)
	}
	cfg.RateLimitRedeem, err = time.ParseDuration(getEnv("RATE_LIMIT_REDEEM", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REDEEM: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
