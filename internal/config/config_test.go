package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/alerts")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("RECAPTCHA_SECRET", "captcha")
	t.Setenv("IDENTITY_MODE", "local")
	t.Setenv("IDENTITY_PROVIDER_KEY", "local-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddress())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 15*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, defaultRecaptchaVerifyURL, cfg.RecaptchaVerifyURL)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"database url", "DATABASE_URL"},
		{"access secret", "ACCESS_TOKEN_SECRET"},
		{"refresh secret", "REFRESH_TOKEN_SECRET"},
		{"recaptcha secret", "RECAPTCHA_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRemoteModeNeedsProviderURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IDENTITY_MODE", "remote")
	t.Setenv("IDENTITY_PROVIDER_URL", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("IDENTITY_PROVIDER_URL", "https://identity.example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, IdentityModeRemote, cfg.IdentityMode)
}

func TestLoadUnknownIdentityMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IDENTITY_MODE", "hybrid")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadProductionAndTTLOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
}
