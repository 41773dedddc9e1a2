package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DatabaseURL:        "postgres://localhost/payscribe",
		JWTSecret:          "secret",
		TokenTTL:           time.Hour,
		SeedAdminPassword:  "ChangeMe123!",
		RunSeed:            true,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 60,
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("RUN_SEED", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "15")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("STATS_REFRESH_INTERVAL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.RunSeed)
	assert.Equal(t, 15, cfg.RateLimitPerMinute)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.StatsRefresh)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadFallsBackOnBadValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "many")
	t.Setenv("METRICS_ENABLED", "perhaps")

	cfg := Load()
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.True(t, cfg.MetricsEnabled)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	missingDB := validConfig()
	missingDB.DatabaseURL = ""
	assert.ErrorContains(t, missingDB.Validate(), "DATABASE_URL")

	seedWithoutPassword := validConfig()
	seedWithoutPassword.SeedAdminPassword = ""
	assert.ErrorContains(t, seedWithoutPassword.Validate(), "SEED_ADMIN_PASSWORD")

	prod := validConfig()
	prod.Environment = "production"
	assert.ErrorContains(t, prod.Validate(), "JWT_SECRET")

	prod.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.ErrorContains(t, prod.Validate(), "DATA_ENCRYPTION_KEY")
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{}.SlogLevel())
}
