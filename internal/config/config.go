package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	SessionSecret string
	SessionTTL    time.Duration

	LogLevel  string
	LogFormat string

	LoginRatePerSecond float64
	LoginBurst         int

	AnalyticsCacheTTL time.Duration

	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),
		Port:                   getEnv("PORT", "8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		SessionSecret:          getEnv("SESSION_SECRET", ""),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "text"),
		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters, got %d", len(cfg.SessionSecret))
	}

	sessionHours, err := getEnvInt("SESSION_TTL_HOURS", 12)
	if err != nil {
		return nil, err
	}
	if sessionHours < 1 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", sessionHours)
	}
	cfg.SessionTTL = time.Duration(sessionHours) * time.Hour

	cacheSeconds, err := getEnvInt("ANALYTICS_CACHE_TTL_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if cacheSeconds < 0 {
		return nil, fmt.Errorf("ANALYTICS_CACHE_TTL_SECONDS must not be negative, got %d", cacheSeconds)
	}
	cfg.AnalyticsCacheTTL = time.Duration(cacheSeconds) * time.Second

	loginRate, err := getEnvFloat("LOGIN_RATE", 1)
	if err != nil {
		return nil, err
	}
	if loginRate <= 0 {
		return nil, fmt.Errorf("LOGIN_RATE must be positive, got %v", loginRate)
	}
	cfg.LoginRatePerSecond = loginRate

	loginBurst, err := getEnvInt("LOGIN_BURST", 5)
	if err != nil {
		return nil, err
	}
	if loginBurst < 1 {
		return nil, fmt.Errorf("LOGIN_BURST must be positive, got %d", loginBurst)
	}
	cfg.LoginBurst = loginBurst

	// Bootstrap admin: both or neither
	if (cfg.BootstrapAdminEmail == "") != (cfg.BootstrapAdminPassword == "") {
		return nil, fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
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

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}
