package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("JWT_SECRET", "test-secret")
}

func clearOptional(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "JWT_ISSUER", "JWT_TTL_HOURS", "APP_ENV", "NODE_ENV",
		"CORS_ALLOWED_ORIGINS", "BCRYPT_COST", "REQUEST_TIMEOUT_SECONDS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearOptional(t)
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, "codemorph", cfg.JWTIssuer)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("NODE_ENV", "Development")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("JWT_TTL_HOURS", "1")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddress())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoad_AppEnvWinsOverNodeEnv(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("NODE_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_MissingSecret(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("JWT_SECRET", "   ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_BadBcryptCost(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("BCRYPT_COST", "40")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("JWT_TTL_HOURS", "abc")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
