package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://app.example.com, ,http://localhost:3000")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Timezone)
	assert.True(t, cfg.Redis.Disabled)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestFromEnv_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:pw@db:5432/mentoria?sslmode=disable", cfg.Database.URL)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")
	t.Setenv("HTTP_PORT", "0")

	_, err := FromEnv()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "APP_TIMEZONE")
	assert.Contains(t, msg, "STORAGE_DRIVER=memory is not allowed in production")
	assert.Contains(t, msg, "JWT_SECRET is required")
	assert.Contains(t, msg, "HTTP_PORT")
}

func TestValidate_UnknownDriverAndShortSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "short")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER must be postgres or memory")
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestGetEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, getEnvInt("X_INT", 7))
	assert.True(t, getEnvBool("X_BOOL", true))
	assert.Equal(t, time.Second, getEnvDuration("X_DUR", time.Second))
}
