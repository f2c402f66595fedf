package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Classification.RSIPeriod != 14 || cfg.Classification.HistoryBars != 60 {
		t.Errorf("unexpected classification defaults: %+v", cfg.Classification)
	}
	if cfg.Classification.Interval != "1d" {
		t.Errorf("expected default interval 1d, got %s", cfg.Classification.Interval)
	}
	if cfg.PriceTTL() != 6*time.Hour {
		t.Errorf("expected 6h price TTL, got %s", cfg.PriceTTL())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: 9000\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("FUNDAMENTALS_URL", "http://localhost:1234/resultado.php")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env must win over file: got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("file value lost: got %s", cfg.Log.Level)
	}
	if cfg.Providers.FundamentalsURL != "http://localhost:1234/resultado.php" {
		t.Errorf("env override lost: got %s", cfg.Providers.FundamentalsURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"tiny rsi period", func(c *Config) { c.Classification.RSIPeriod = 1 }},
		{"window below period", func(c *Config) { c.Classification.HistoryBars = 10 }},
		{"zero ttl", func(c *Config) { c.Cache.PriceTTLSeconds = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}
