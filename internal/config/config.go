package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the searchd API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
	Auth      AuthConfig      `yaml:"auth"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings. An empty APIKeys list disables
// authentication; anonymous callers then receive DefaultPermissions.
type AuthConfig struct {
	DefaultPermissions []string       `yaml:"default_permissions"`
	APIKeys            []APIKeyConfig `yaml:"api_keys"`
}

// APIKeyConfig maps one API key to a caller identity and its permission set.
type APIKeyConfig struct {
	Key         string   `yaml:"key"`
	UserID      string   `yaml:"user_id"`
	Permissions []string `yaml:"permissions"`
}

// DatabaseConfig holds the shared counter store connection. Leaving Addrs empty
// keeps rate-limit counters in process memory.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds coordinator fan-out settings.
type SearchConfig struct {
	ProviderTimeoutMS int `yaml:"provider_timeout_ms"`
	MaxConcurrent     int `yaml:"max_concurrent"`
	QuickLimit        int `yaml:"quick_limit"`
}

// RateLimitConfig holds the per-endpoint-class request budgets.
type RateLimitConfig struct {
	Search      WindowConfig `yaml:"search"`
	QuickSearch WindowConfig `yaml:"quick_search"`
}

// WindowConfig is one windowed budget. Limit 0 disables the budget.
type WindowConfig struct {
	Limit     int64 `yaml:"limit"`
	WindowSec int   `yaml:"window_sec"`
}

// CatalogConfig declares the providers registered at startup.
type CatalogConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig wires one entity type to its permission and record file.
type ProviderConfig struct {
	EntityType string `yaml:"entity_type"`
	Permission string `yaml:"permission"`
	File       string `yaml:"file"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.ProviderTimeoutMS <= 0 {
		c.Search.ProviderTimeoutMS = 2000
	}
	if c.Search.MaxConcurrent <= 0 {
		c.Search.MaxConcurrent = 8
	}
	if c.Search.QuickLimit <= 0 {
		c.Search.QuickLimit = 8
	}
	if c.RateLimit.Search.Limit <= 0 {
		c.RateLimit.Search = WindowConfig{Limit: 30, WindowSec: 60}
	}
	if c.RateLimit.Search.WindowSec <= 0 {
		c.RateLimit.Search.WindowSec = 60
	}
	if c.RateLimit.QuickSearch.Limit <= 0 {
		c.RateLimit.QuickSearch = WindowConfig{Limit: 60, WindowSec: 60}
	}
	if c.RateLimit.QuickSearch.WindowSec <= 0 {
		c.RateLimit.QuickSearch.WindowSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	for i, k := range c.Auth.APIKeys {
		if k.Key == "" {
			return fmt.Errorf("auth.api_keys[%d].key is required", i)
		}
		if k.UserID == "" {
			return fmt.Errorf("auth.api_keys[%d].user_id is required", i)
		}
	}
	seen := make(map[string]struct{}, len(c.Catalog.Providers))
	for i, p := range c.Catalog.Providers {
		if p.EntityType == "" {
			return fmt.Errorf("catalog.providers[%d].entity_type is required", i)
		}
		if _, dup := seen[p.EntityType]; dup {
			return fmt.Errorf("catalog.providers: duplicate entity_type %q", p.EntityType)
		}
		seen[p.EntityType] = struct{}{}
		if p.Permission == "" {
			return fmt.Errorf("catalog.providers[%d].permission is required", i)
		}
		if p.File == "" {
			return fmt.Errorf("catalog.providers[%d].file is required", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
