package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blankEnv clears the variables the tests assert on.
func blankEnv(t *testing.T) {
	for _, k := range []string{"APP_ENV", "SERVER_HOST", "PORT", "MONGO_DATABASE", "JWT_TTL", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "JOBS_ENABLED", "AUTH_MAX_FAILED_LOGINS"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	blankEnv(t)
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Address())
	assert.Equal(t, "hospital_management", cfg.Mongo.Database)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Jobs.Enabled)
	assert.Equal(t, 5, cfg.Auth.MaxFailedLogins)
}

func TestLoadOverrides(t *testing.T) {
	blankEnv(t)
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("JOBS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Jobs.Enabled)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadValidation(t *testing.T) {
	blankEnv(t)
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "short")
	t.Setenv("APP_ENV", "production")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}
