// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	LogFormat   string

	// Vote rate limiting (token bucket per acting user). Only enforced when
	// RedisURL is set.
	VoteRateCapacity int
	VoteRatePerMin   int
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var err error
	cfg.VoteRateCapacity, err = getEnvInt("VOTE_RATE_CAPACITY", 10)
	if err != nil {
		return nil, err
	}
	cfg.VoteRatePerMin, err = getEnvInt("VOTE_RATE_PER_MIN", 30)
	if err != nil {
		return nil, err
	}
	if cfg.VoteRateCapacity <= 0 || cfg.VoteRatePerMin <= 0 {
		return nil, fmt.Errorf("vote rate limit settings must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
