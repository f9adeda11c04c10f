package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	LogLevel    string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// BaseURL is where this API is reachable; IngestURL is what the widget posts to.
	BaseURL     string
	IngestURL   string
	FrontendURL string

	RateLimit RateLimitConfig

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// RateLimitConfig configures per-website ingestion limits. A zero Limit disables limiting.
type RateLimitConfig struct {
	RedisURL string
	Limit    int
	Window   time.Duration
}

func (r RateLimitConfig) Enabled() bool {
	return r.Limit > 0 && r.RedisURL != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"))
	if err != nil {
		refreshExpiry = 168 * time.Hour
	}

	window, err := time.ParseDuration(getEnv("INGEST_RATE_WINDOW", "1m"))
	if err != nil {
		window = time.Minute
	}

	limit, err := strconv.Atoi(getEnv("INGEST_RATE_LIMIT", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}

	baseURL := getEnv("BASE_URL", "http://localhost:8080")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", ""),

		JWTSecret:        getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,

		BaseURL:     baseURL,
		IngestURL:   getEnv("INGEST_URL", baseURL+"/api/feedback"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		RateLimit: RateLimitConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			Limit:    limit,
			Window:   window,
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
