package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		RequestTimeout  time.Duration `yaml:"request_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		AllowOrigin     string        `yaml:"allow_origin"`
	} `yaml:"server"`
	Resolver struct {
		DefaultSymbol string        `yaml:"default_symbol"`
		SearchTimeout time.Duration `yaml:"search_timeout"`
	} `yaml:"resolver"`
	News struct {
		MaxItems       int           `yaml:"max_items"`
		MinRelevant    int           `yaml:"min_relevant"`
		PageSize       int           `yaml:"page_size"`
		Language       string        `yaml:"language"`
		Timeout        time.Duration `yaml:"timeout"`
		NewsAPIBaseURL string        `yaml:"newsapi_base_url"`
		RSSBaseURL     string        `yaml:"rss_base_url"`
		NewsAPIKeyEnv  string        `yaml:"newsapi_key_env"`
	} `yaml:"news"`
	Sentiment struct {
		Model             string        `yaml:"model"`
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		Burst             int           `yaml:"burst"`
		APIKeyEnv         string        `yaml:"api_key_env"`
	} `yaml:"sentiment"`
	Market struct {
		FinnhubBaseURL    string        `yaml:"finnhub_base_url"`
		TwelveDataBaseURL string        `yaml:"twelvedata_base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		WeeklyAboveDays   int           `yaml:"weekly_above_days"`
		MinWeeklyBars     int           `yaml:"min_weekly_bars"`
		FinnhubKeyEnv     string        `yaml:"finnhub_key_env"`
		TwelveDataKeyEnv  string        `yaml:"twelvedata_key_env"`
	} `yaml:"market"`
	Backtest struct {
		DefaultDays int `yaml:"default_days"`
	} `yaml:"backtest"`

	// Secrets are never read from YAML; LoadSecrets fills them from the environment.
	Secrets Secrets `yaml:"-"`
}

type Secrets struct {
	NewsAPIKey    string
	HFAPIKey      string
	FinnhubAPIKey string
	TwelveDataKey string
}

func (c *Config) Validate() error {
	if c.News.MaxItems <= 0 {
		return fmt.Errorf("news.max_items must be positive, got %d", c.News.MaxItems)
	}
	if c.News.MinRelevant < 1 || c.News.MinRelevant > c.News.MaxItems {
		return fmt.Errorf("news.min_relevant must be between 1 and max_items (%d), got %d", c.News.MaxItems, c.News.MinRelevant)
	}
	if c.Sentiment.RequestsPerSecond <= 0 {
		return fmt.Errorf("sentiment.requests_per_second must be positive, got %.2f", c.Sentiment.RequestsPerSecond)
	}
	if c.Sentiment.Burst <= 0 {
		return fmt.Errorf("sentiment.burst must be positive, got %d", c.Sentiment.Burst)
	}
	if c.Market.WeeklyAboveDays <= 0 {
		return errors.New("market.weekly_above_days must be positive")
	}
	if c.Backtest.DefaultDays <= 0 {
		return fmt.Errorf("backtest.default_days must be positive, got %d", c.Backtest.DefaultDays)
	}
	if c.Resolver.DefaultSymbol == "" {
		return errors.New("resolver.default_symbol cannot be empty")
	}
	return nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// LoadConfig reads the YAML file at path. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// LoadSecrets loads .env (if any) and copies the provider keys into c.Secrets.
func (c *Config) LoadSecrets() {
	_ = godotenv.Load()
	c.Secrets = Secrets{
		NewsAPIKey:    os.Getenv(c.News.NewsAPIKeyEnv),
		HFAPIKey:      os.Getenv(c.Sentiment.APIKeyEnv),
		FinnhubAPIKey: os.Getenv(c.Market.FinnhubKeyEnv),
		TwelveDataKey: os.Getenv(c.Market.TwelveDataKeyEnv),
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.AllowOrigin == "" {
		c.Server.AllowOrigin = "*"
	}

	if c.Resolver.DefaultSymbol == "" {
		c.Resolver.DefaultSymbol = "AAPL"
	}
	if c.Resolver.SearchTimeout == 0 {
		c.Resolver.SearchTimeout = 5 * time.Second
	}

	if c.News.MaxItems == 0 {
		c.News.MaxItems = 6
	}
	if c.News.MinRelevant == 0 {
		c.News.MinRelevant = 3
	}
	if c.News.PageSize == 0 {
		c.News.PageSize = 20
	}
	if c.News.Language == "" {
		c.News.Language = "en"
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = 8 * time.Second
	}
	if c.News.NewsAPIBaseURL == "" {
		c.News.NewsAPIBaseURL = "https://newsapi.org/v2"
	}
	if c.News.RSSBaseURL == "" {
		c.News.RSSBaseURL = "https://news.google.com"
	}
	if c.News.NewsAPIKeyEnv == "" {
		c.News.NewsAPIKeyEnv = "NEWSAPI_KEY"
	}

	if c.Sentiment.Model == "" {
		c.Sentiment.Model = "ProsusAI/finbert"
	}
	if c.Sentiment.BaseURL == "" {
		c.Sentiment.BaseURL = "https://api-inference.huggingface.co"
	}
	if c.Sentiment.Timeout == 0 {
		c.Sentiment.Timeout = 10 * time.Second
	}
	if c.Sentiment.RequestsPerSecond == 0 {
		c.Sentiment.RequestsPerSecond = 10
	}
	if c.Sentiment.Burst == 0 {
		c.Sentiment.Burst = 6
	}
	if c.Sentiment.APIKeyEnv == "" {
		c.Sentiment.APIKeyEnv = "HF_API_KEY"
	}

	if c.Market.FinnhubBaseURL == "" {
		c.Market.FinnhubBaseURL = "https://finnhub.io/api/v1"
	}
	if c.Market.TwelveDataBaseURL == "" {
		c.Market.TwelveDataBaseURL = "https://api.twelvedata.com"
	}
	if c.Market.Timeout == 0 {
		c.Market.Timeout = 10 * time.Second
	}
	if c.Market.WeeklyAboveDays == 0 {
		c.Market.WeeklyAboveDays = 60
	}
	if c.Market.MinWeeklyBars == 0 {
		c.Market.MinWeeklyBars = 52
	}
	if c.Market.FinnhubKeyEnv == "" {
		c.Market.FinnhubKeyEnv = "FINNHUB_API_KEY"
	}
	if c.Market.TwelveDataKeyEnv == "" {
		c.Market.TwelveDataKeyEnv = "TWELVE_DATA_KEY"
	}

	if c.Backtest.DefaultDays == 0 {
		c.Backtest.DefaultDays = 30
	}
}
