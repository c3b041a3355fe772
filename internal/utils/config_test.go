package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_DB", "SERVER_PORT", "ADMIN_USERNAME",
		"ADMIN_PASSWORD", "JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
		"ACCESS_TOKEN_TTL_MINUTES", "CORS_ALLOWED_ORIGINS", "AUTH_RATE_LIMIT_PER_SECOND",
	} {
		t.Setenv(key, "")
	}
}

func missingDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(missingDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.True(t, cfg.Development())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.RefreshTTL)
	assert.Equal(t, defaultIssuer, cfg.Token.Issuer)
	assert.Equal(t, defaultAudience, cfg.Token.Audience)
	assert.True(t, cfg.Token.InsecureDefault)
	assert.NotEmpty(t, cfg.Token.Secret)
	assert.Empty(t, cfg.Cors.AllowedOrigins)
	assert.Equal(t, float64(defaultAuthRatePerSecond), cfg.RateLimit.AuthPerSecond)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("JWT_SECRET", "a-very-long-production-secret-of-more-than-32-bytes")
	t.Setenv("JWT_ISSUER", "wardrobe")
	t.Setenv("JWT_AUDIENCE", "wardrobe-web")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("POSTGRES_USER", "wardrobe")

	cfg, err := LoadConfig(missingDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.Development())
	assert.False(t, cfg.Token.InsecureDefault)
	assert.Equal(t, "wardrobe", cfg.Token.Issuer)
	assert.Equal(t, "wardrobe-web", cfg.Token.Audience)
	assert.Equal(t, 30*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, RefreshTokenTTL, cfg.Token.RefreshTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Cors.AllowedOrigins)
	assert.Contains(t, cfg.Database.DSN(), "user=wardrobe")
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := LoadConfig(missingDotenv(t))
	assert.ErrorIs(t, err, ErrMissingSecretInProduction)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "-5")
	_, err := LoadConfig(missingDotenv(t))
	assert.ErrorIs(t, err, ErrInvalidAccessTokenTTL)

	clearConfigEnv(t)
	t.Setenv("AUTH_RATE_LIMIT_PER_SECOND", "zero")
	_, err = LoadConfig(missingDotenv(t))
	assert.ErrorIs(t, err, ErrInvalidRateLimit)
}

func TestLoadConfig_ReadsDotenvFile(t *testing.T) {
	clearConfigEnv(t)
	// godotenv does not override variables that are already set, even empty ones
	require.NoError(t, os.Unsetenv("SERVER_PORT"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9999\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SERVER_PORT") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
}
