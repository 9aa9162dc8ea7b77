package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.HTTPAddr != ":8080" {
		t.Fatalf("expected default http_addr, got %q", cfg.App.HTTPAddr)
	}
	if cfg.App.RateLimit != 3 || cfg.App.RateBurst != 5 {
		t.Fatalf("expected default rate limits 3/5, got %v/%v", cfg.App.RateLimit, cfg.App.RateBurst)
	}
	if cfg.Security.AccessTokenExpireMinutes != 30 {
		t.Fatalf("expected default token ttl 30, got %d", cfg.Security.AccessTokenExpireMinutes)
	}
}

func TestLoad_AbsentFieldsKeepDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"app": {"http_addr": ":9090"}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.HTTPAddr != ":9090" {
		t.Fatalf("expected http_addr from file, got %q", cfg.App.HTTPAddr)
	}
	if cfg.App.LogLevel != "info" {
		t.Fatalf("expected default log level for absent field, got %q", cfg.App.LogLevel)
	}
	if cfg.App.RateLimit != 3 || cfg.App.RateBurst != 5 {
		t.Fatalf("expected default rate limits for absent fields, got %v/%v", cfg.App.RateLimit, cfg.App.RateBurst)
	}
}

func TestLoad_ExplicitZeroRateDisablesThrottle(t *testing.T) {
	path := writeConfigFile(t, `{"app": {"rate_limit": 0, "rate_burst": 0}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.RateLimit != 0 || cfg.App.RateBurst != 0 {
		t.Fatalf("explicit zero must disable throttling, got %v/%v", cfg.App.RateLimit, cfg.App.RateBurst)
	}
}
