// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Preference storage backends.
const (
	BackendSQLite = "sqlite"
	BackendTOML   = "toml"
	BackendMemory = "memory"
)

type Config struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"omitempty,oneof=debug release test"`
	DataDir string `validate:"required"`

	PrefsBackend string `validate:"oneof=sqlite toml memory"`
	OSScheme     string `validate:"oneof=system light dark"`

	GitHubUser   string `validate:"required"`
	Author       string
	GeminiAPIKey string
	GeminiModel  string        `validate:"required"`
	StatusTTL    time.Duration `validate:"gt=0"`

	// AdminToken enables /admin/api when set.
	AdminToken string
}

// Load reads the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getenv("PORT", "8080"),
		GinMode:      os.Getenv("GIN_MODE"),
		DataDir:      getenv("DATA_DIR", "./data"),
		PrefsBackend: strings.ToLower(getenv("PREFS_BACKEND", BackendSQLite)),
		OSScheme:     strings.ToLower(getenv("PORTFOLIO_OS_SCHEME", "system")),
		GitHubUser:   getenv("GITHUB_USERNAME", "PranavAgarkar07"),
		Author:       getenv("PORTFOLIO_AUTHOR", "Pranav Agarkar"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-flash-latest"),
		AdminToken:   os.Getenv("ADMIN_TOKEN"),
	}

	ttl, err := time.ParseDuration(getenv("STATUS_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_CACHE_TTL: %w", err)
	}
	cfg.StatusTTL = ttl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// PrefsFile is the TOML preferences path used by the toml backend.
func (c *Config) PrefsFile() string {
	return filepath.Join(c.DataDir, "preferences.toml")
}

// MaskedAPIKey shows only the ends of the Gemini key for logging.
func (c *Config) MaskedAPIKey() string {
	key := c.GeminiAPIKey
	if len(key) <= 10 {
		return "[EMPTY] or [INVALID LENGTH]"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
