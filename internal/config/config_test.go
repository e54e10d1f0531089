package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Providers: []ProviderConfig{
			{EntityType: "products", Permission: "products.read", File: "config/catalog/products.yaml"},
		}},
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("http timeouts = %+v, want 10s each", cfg.HTTP)
	}
	if cfg.Search.ProviderTimeoutMS != 2000 {
		t.Errorf("provider timeout = %d, want 2000", cfg.Search.ProviderTimeoutMS)
	}
	if cfg.Search.MaxConcurrent != 8 || cfg.Search.QuickLimit != 8 {
		t.Errorf("search = %+v, want max_concurrent 8 quick_limit 8", cfg.Search)
	}
	if cfg.RateLimit.Search.Limit != 30 || cfg.RateLimit.Search.WindowSec != 60 {
		t.Errorf("search budget = %+v, want 30/60s", cfg.RateLimit.Search)
	}
	if cfg.RateLimit.QuickSearch.Limit != 60 || cfg.RateLimit.QuickSearch.WindowSec != 60 {
		t.Errorf("quick search budget = %+v, want 60/60s", cfg.RateLimit.QuickSearch)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Search:    SearchConfig{ProviderTimeoutMS: 500, MaxConcurrent: 2, QuickLimit: 5},
		RateLimit: RateLimitConfig{Search: WindowConfig{Limit: 100, WindowSec: 3600}},
	}
	cfg.ApplyDefaults()

	if cfg.Search.ProviderTimeoutMS != 500 || cfg.Search.MaxConcurrent != 2 || cfg.Search.QuickLimit != 5 {
		t.Errorf("explicit search settings were overwritten: %+v", cfg.Search)
	}
	if cfg.RateLimit.Search.Limit != 100 || cfg.RateLimit.Search.WindowSec != 3600 {
		t.Errorf("explicit budget was overwritten: %+v", cfg.RateLimit.Search)
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{
			"api key without key",
			func(c *Config) { c.Auth.APIKeys = []APIKeyConfig{{UserID: "svc"}} },
			"key is required",
		},
		{
			"api key without user",
			func(c *Config) { c.Auth.APIKeys = []APIKeyConfig{{Key: "k"}} },
			"user_id is required",
		},
		{
			"provider without entity type",
			func(c *Config) { c.Catalog.Providers[0].EntityType = "" },
			"entity_type is required",
		},
		{
			"provider without permission",
			func(c *Config) { c.Catalog.Providers[0].Permission = "" },
			"permission is required",
		},
		{
			"provider without file",
			func(c *Config) { c.Catalog.Providers[0].File = "" },
			"file is required",
		},
		{
			"duplicate entity type",
			func(c *Config) {
				c.Catalog.Providers = append(c.Catalog.Providers, c.Catalog.Providers[0])
			},
			"duplicate entity_type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantSub)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SEARCHD_TEST_PORT", "9090")

	in := []byte("port: ${SEARCHD_TEST_PORT}\npassword: ${SEARCHD_TEST_ABSENT:-fallback}\nempty: ${SEARCHD_TEST_ABSENT}\n")
	got := string(expandEnvVars(in))
	want := "port: 9090\npassword: fallback\nempty: \n"
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}
