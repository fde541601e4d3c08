package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Calendar struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"calendar"`
	MarketData struct {
		ChartURL    string        `yaml:"chart_url"`
		FredURL     string        `yaml:"fred_url"`
		FredAPIKey  string        `yaml:"fred_api_key"`
		MonthsAhead int           `yaml:"months_ahead"`
		Timeout     time.Duration `yaml:"timeout"`
		MaxRPS      float64       `yaml:"max_rps"`
		FallbackBand struct {
			Lower float64 `yaml:"lower"`
			Upper float64 `yaml:"upper"`
		} `yaml:"fallback_band"`
		CacheTTL struct {
			Futures    time.Duration `yaml:"futures"`
			TargetRate time.Duration `yaml:"target_rate"`
			Historical time.Duration `yaml:"historical"`
		} `yaml:"cache_ttl"`
	} `yaml:"marketdata"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.MarketData.FredAPIKey = v
	}
	if v := os.Getenv("CALENDAR_URL"); v != "" {
		c.Calendar.URL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
		c.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Calendar.Timeout == 0 {
		c.Calendar.Timeout = 10 * time.Second
	}
	if c.MarketData.MonthsAhead == 0 {
		c.MarketData.MonthsAhead = 18
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = 15 * time.Second
	}
	if c.MarketData.MaxRPS == 0 {
		c.MarketData.MaxRPS = 5
	}
	if c.MarketData.FallbackBand.Lower == 0 && c.MarketData.FallbackBand.Upper == 0 {
		c.MarketData.FallbackBand.Lower = 4.25
		c.MarketData.FallbackBand.Upper = 4.50
	}
	if c.MarketData.CacheTTL.Futures == 0 {
		c.MarketData.CacheTTL.Futures = 5 * time.Minute
	}
	if c.MarketData.CacheTTL.TargetRate == 0 {
		c.MarketData.CacheTTL.TargetRate = time.Hour
	}
	if c.MarketData.CacheTTL.Historical == 0 {
		c.MarketData.CacheTTL.Historical = 15 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Calendar.URL == "" {
		return fmt.Errorf("calendar.url is required")
	}
	if c.MarketData.ChartURL == "" {
		return fmt.Errorf("marketdata.chart_url is required")
	}
	if c.MarketData.FallbackBand.Upper < c.MarketData.FallbackBand.Lower {
		return fmt.Errorf("marketdata.fallback_band upper %.2f below lower %.2f",
			c.MarketData.FallbackBand.Upper, c.MarketData.FallbackBand.Lower)
	}
	if c.MarketData.MonthsAhead < 1 || c.MarketData.MonthsAhead > 36 {
		return fmt.Errorf("marketdata.months_ahead must be within 1..36, got %d", c.MarketData.MonthsAhead)
	}
	return nil
}
