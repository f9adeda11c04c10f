package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BASE_URL", "https://feedback.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, "https://feedback.example.com/api/feedback", cfg.IngestURL)
	assert.False(t, cfg.RateLimit.Enabled())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "production")
	t.Setenv("INGEST_URL", "https://ingest.example.com/api/feedback")
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("INGEST_RATE_LIMIT", "30")
	t.Setenv("INGEST_RATE_WINDOW", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://ingest.example.com/api/feedback", cfg.IngestURL)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.True(t, cfg.RateLimit.Enabled())
	assert.Equal(t, 30, cfg.RateLimit.Limit)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window)
}

func TestLoad_NegativeRateLimitDisables(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("INGEST_RATE_LIMIT", "-5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.RateLimit.Limit)
	assert.False(t, cfg.RateLimit.Enabled())
}

func TestLoad_PanicsWithoutJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { _, _ = Load() })
}
