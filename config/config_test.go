package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.Session.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Session.ResetTokenTTL)
	assert.Equal(t, 86400, cfg.Session.CookieMaxAge)
	assert.Equal(t, "/products", cfg.Session.LoginRedirect)
	assert.False(t, cfg.GitHub.Enabled())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
port: "9090"
session:
  token_ttl: 2h
  reset_token_ttl: 15m
  cookie_max_age: 600
  reset_password_url: https://shop.example.com/reset-password
github:
  client_id: abc
  client_secret: def
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("RESET_TOKEN_TTL", "5m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "from-env", cfg.Session.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Session.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.ResetTokenTTL)
	assert.Equal(t, 600, cfg.Session.CookieMaxAge)
	assert.Equal(t, "https://shop.example.com/reset-password", cfg.Session.ResetPasswordURL)
	assert.True(t, cfg.GitHub.Enabled())
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad int", "SMTP_PORT", "twenty-five"},
		{"bad duration", "TOKEN_TTL", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
