package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Identity provider modes. Remote talks to the hosted provider's HTTP API;
// local keeps bcrypt-hashed credentials in our own record store.
const (
	IdentityModeRemote = "remote"
	IdentityModeLocal  = "local"
)

const defaultRecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	CORSOrigins []string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	// IdentityProviderKey doubles as the API key in remote mode and the
	// id-token signing secret in local mode.
	IdentityMode        string
	IdentityProviderURL string
	IdentityProviderKey string

	RecaptchaSecret    string
	RecaptchaVerifyURL string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                fallback(os.Getenv("PORT"), "5000"),
		Env:                 fallback(os.Getenv("ENV"), "development"),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CORSOrigins:         parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "http://localhost:5173")),
		AccessTokenSecret:   strings.TrimSpace(os.Getenv("ACCESS_TOKEN_SECRET")),
		RefreshTokenSecret:  strings.TrimSpace(os.Getenv("REFRESH_TOKEN_SECRET")),
		AccessTokenTTL:      minutes(os.Getenv("ACCESS_TOKEN_TTL_MINUTES"), 15),
		RefreshTokenTTL:     days(os.Getenv("REFRESH_TOKEN_TTL_DAYS"), 15),
		IdentityMode:        fallback(os.Getenv("IDENTITY_MODE"), IdentityModeRemote),
		IdentityProviderURL: strings.TrimSpace(os.Getenv("IDENTITY_PROVIDER_URL")),
		IdentityProviderKey: strings.TrimSpace(os.Getenv("IDENTITY_PROVIDER_KEY")),
		RecaptchaSecret:     strings.TrimSpace(os.Getenv("RECAPTCHA_SECRET")),
		RecaptchaVerifyURL:  fallback(os.Getenv("RECAPTCHA_VERIFY_URL"), defaultRecaptchaVerifyURL),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.AccessTokenSecret == "" {
		return Config{}, errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.RefreshTokenSecret == "" {
		return Config{}, errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if cfg.RecaptchaSecret == "" {
		return Config{}, errors.New("RECAPTCHA_SECRET is required")
	}
	switch cfg.IdentityMode {
	case IdentityModeRemote:
		if cfg.IdentityProviderURL == "" {
			return Config{}, errors.New("IDENTITY_PROVIDER_URL is required in remote identity mode")
		}
	case IdentityModeLocal:
		if cfg.IdentityProviderKey == "" {
			return Config{}, errors.New("IDENTITY_PROVIDER_KEY is required in local identity mode")
		}
	default:
		return Config{}, fmt.Errorf("unknown IDENTITY_MODE %q", cfg.IdentityMode)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// IsProduction gates the Secure flag on session cookies.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func minutes(value string, def int) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return time.Duration(n) * time.Minute
	}
	return time.Duration(def) * time.Minute
}

func days(value string, def int) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return time.Duration(n) * 24 * time.Hour
	}
	return time.Duration(def) * 24 * time.Hour
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
