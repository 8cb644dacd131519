// Package config loads runtime settings for the session service.
//
// Load order: built-in defaults, then an optional YAML file, then a .env file
// (godotenv never overrides variables already set in the shell), then
// environment variables. Secrets are expected to come from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the session service
type Config struct {
	Port          string        `yaml:"port"`
	DatabasePath  string        `yaml:"database_path"`
	MigrationsDir string        `yaml:"migrations_dir"`
	Redis         RedisConfig   `yaml:"redis"`
	Session       SessionConfig `yaml:"session"`
	GitHub        GitHubConfig  `yaml:"github"`
	SMTP          SMTPConfig    `yaml:"smtp"`
}

// RedisConfig points the user cache at a redis instance
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SessionConfig covers token signing, the session cookie and the reset link
type SessionConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"`
	TokenTTL         time.Duration `yaml:"token_ttl"`
	ResetTokenTTL    time.Duration `yaml:"reset_token_ttl"`
	CookieHashKey    string        `yaml:"cookie_hash_key"`
	CookieMaxAge     int           `yaml:"cookie_max_age"` // seconds
	CookieSecure     bool          `yaml:"cookie_secure"`
	ResetPasswordURL string        `yaml:"reset_password_url"`
	LoginRedirect    string        `yaml:"login_redirect"`
}

// GitHubConfig holds the OAuth app used for "login with GitHub"
type GitHubConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// Enabled reports whether GitHub login is configured
func (c GitHubConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// SMTPConfig is the outgoing mail server for reset emails
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Default returns development defaults. JWT and cookie secrets must be
// overridden outside development.
func Default() *Config {
	return &Config{
		Port:          "8080",
		DatabasePath:  "./ecommerce_sessions.db",
		MigrationsDir: "./database/migrations",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Session: SessionConfig{
			JWTSecret:        "dev-jwt-secret",
			TokenTTL:         24 * time.Hour,
			ResetTokenTTL:    time.Hour,
			CookieHashKey:    "dev-cookie-hash-key-change-me-32b",
			CookieMaxAge:     86400,
			ResetPasswordURL: "http://localhost:8080/reset-password",
			LoginRedirect:    "/products",
		},
		GitHub: GitHubConfig{
			CallbackURL: "http://localhost:8080/api/sessions/github-callback",
		},
		SMTP: SMTPConfig{
			Host: "localhost",
			Port: 587,
			From: "no-reply@localhost",
		},
	}
}

var envFiles = []string{".env", "../.env"}

// Load builds a Config from defaults, the optional YAML file at path, .env and
// the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	for _, p := range envFiles {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", cfg.MigrationsDir)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)

	cfg.Session.JWTSecret = getEnv("JWT_SECRET", cfg.Session.JWTSecret)
	cfg.Session.CookieHashKey = getEnv("COOKIE_SECRET", cfg.Session.CookieHashKey)
	cfg.Session.ResetPasswordURL = getEnv("RESET_PASSWORD_URL", cfg.Session.ResetPasswordURL)
	cfg.Session.LoginRedirect = getEnv("LOGIN_REDIRECT", cfg.Session.LoginRedirect)

	cfg.GitHub.ClientID = getEnv("GITHUB_CLIENT_ID", cfg.GitHub.ClientID)
	cfg.GitHub.ClientSecret = getEnv("GITHUB_CLIENT_SECRET", cfg.GitHub.ClientSecret)
	cfg.GitHub.CallbackURL = getEnv("GITHUB_CALLBACK_URL", cfg.GitHub.CallbackURL)

	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.SMTP.From = getEnv("SMTP_FROM", cfg.SMTP.From)

	var err error
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if cfg.SMTP.Port, err = getEnvInt("SMTP_PORT", cfg.SMTP.Port); err != nil {
		return err
	}
	if cfg.Session.CookieMaxAge, err = getEnvInt("COOKIE_MAX_AGE", cfg.Session.CookieMaxAge); err != nil {
		return err
	}
	if cfg.Session.TokenTTL, err = getEnvDuration("TOKEN_TTL", cfg.Session.TokenTTL); err != nil {
		return err
	}
	if cfg.Session.ResetTokenTTL, err = getEnvDuration("RESET_TOKEN_TTL", cfg.Session.ResetTokenTTL); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
