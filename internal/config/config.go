package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Providers struct {
		PriceBaseURL    string `yaml:"price_base_url"`
		FundamentalsURL string `yaml:"fundamentals_url"`
	} `yaml:"providers"`
	Classification struct {
		RSIPeriod   int    `yaml:"rsi_period"`
		HistoryBars int    `yaml:"history_bars"`
		Interval    string `yaml:"interval"`
		Workers     int    `yaml:"workers"`
	} `yaml:"classification"`
	Cache struct {
		PriceTTLSeconds  int `yaml:"price_ttl_seconds"`
		FetchTimeoutSecs int `yaml:"fetch_timeout_seconds"`
	} `yaml:"cache"`
	Schedule struct {
		PruneCron        string `yaml:"prune_cron"`
		FundamentalsCron string `yaml:"fundamentals_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("PRICE_BASE_URL"); v != "" {
		cfg.Providers.PriceBaseURL = v
	}
	if v := os.Getenv("FUNDAMENTALS_URL"); v != "" {
		cfg.Providers.FundamentalsURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Classification.RSIPeriod == 0 {
		cfg.Classification.RSIPeriod = 14
	}
	if cfg.Classification.HistoryBars == 0 {
		cfg.Classification.HistoryBars = 60
	}
	if cfg.Classification.Interval == "" {
		cfg.Classification.Interval = "1d"
	}
	if cfg.Classification.Workers == 0 {
		cfg.Classification.Workers = 8
	}
	if cfg.Cache.PriceTTLSeconds == 0 {
		cfg.Cache.PriceTTLSeconds = 21600 // 6 hours
	}
	if cfg.Cache.FetchTimeoutSecs == 0 {
		cfg.Cache.FetchTimeoutSecs = 45
	}
	if cfg.Schedule.PruneCron == "" {
		cfg.Schedule.PruneCron = "0 0 * * * *" // hourly
	}
	if cfg.Schedule.FundamentalsCron == "" {
		cfg.Schedule.FundamentalsCron = "0 0 6 * * *" // daily, before market open
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// PriceTTL returns the price cache TTL as a duration.
func (c *Config) PriceTTL() time.Duration {
	return time.Duration(c.Cache.PriceTTLSeconds) * time.Second
}

// FetchTimeout returns the per-ticker fetch budget as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Cache.FetchTimeoutSecs) * time.Second
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535")
	}
	if c.Classification.RSIPeriod < 2 {
		return fmt.Errorf("classification.rsi_period must be at least 2")
	}
	if c.Classification.HistoryBars < c.Classification.RSIPeriod+1 {
		return fmt.Errorf("classification.history_bars must exceed rsi_period")
	}
	if c.Cache.PriceTTLSeconds <= 0 {
		return fmt.Errorf("cache.price_ttl_seconds must be positive")
	}
	return nil
}
