package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Window struct {
		TradingDays int `yaml:"trading_days"`
	} `yaml:"window"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		Mode    string `yaml:"mode"` // "yahoo" or "mock"
	} `yaml:"data_source"`
	Schedule struct {
		IngestCron string `yaml:"ingest_cron"`
		StatusCron string `yaml:"status_cron"`
	} `yaml:"schedule"`
	Universe struct {
		Stocks  []string `yaml:"stocks"`
		Forex   []string `yaml:"forex"`
		Indices []string `yaml:"indices"`
		Crypto  []string `yaml:"crypto"`
	} `yaml:"universe"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("TRADING_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Window.TradingDays = n
		}
	}
	if v := os.Getenv("DATA_SOURCE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource.Mode = v
	}
	if v := os.Getenv("CRON_INGEST"); v != "" {
		cfg.Schedule.IngestCron = v
	}
	if v := os.Getenv("CRON_STATUS"); v != "" {
		cfg.Schedule.StatusCron = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Window.TradingDays == 0 {
		cfg.Window.TradingDays = 100
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://query1.finance.yahoo.com/v7/finance/download/"
	}
	if cfg.DataSource.Mode == "" {
		cfg.DataSource.Mode = "yahoo"
	}
	if cfg.Schedule.IngestCron == "" {
		cfg.Schedule.IngestCron = "0 * * * * *"
	}
	if cfg.Schedule.StatusCron == "" {
		cfg.Schedule.StatusCron = "0 0 * * * *"
	}
	if cfg.API.Addr == "" {
		cfg.API.Addr = ":8085"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/market_window.db"
	}
	if len(cfg.Universe.Stocks)+len(cfg.Universe.Forex)+len(cfg.Universe.Indices)+len(cfg.Universe.Crypto) == 0 {
		cfg.Universe.Stocks = []string{"NVDA", "AMD", "GS", "SLV", "NET", "WDC", "CRCL", "STLD", "TTWO", "UBS"}
		cfg.Universe.Forex = []string{"EURUSD=X", "INRJPY=X", "BRLGBP=X"}
		cfg.Universe.Indices = []string{"MNQ", "EWJ"}
		cfg.Universe.Crypto = []string{"ETH-USD"}
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Window.TradingDays <= 0 {
		return fmt.Errorf("window.trading_days must be positive")
	}
	if c.DataSource.Mode != "yahoo" && c.DataSource.Mode != "mock" {
		return fmt.Errorf("data_source.mode must be yahoo or mock, got %q", c.DataSource.Mode)
	}
	if c.API.Addr == "" {
		return fmt.Errorf("api.addr is required")
	}
	return nil
}
