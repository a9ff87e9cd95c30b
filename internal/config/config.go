package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Symbols are the pairs the advisor accepts.
var Symbols = []string{
	"BTC-USDT", "ETH-USDT", "BNB-USDT", "SOL-USDT", "XRP-USDT", "ADA-USDT",
	"DOGE-USDT", "DOT-USDT", "MATIC-USDT", "AVAX-USDT", "LINK-USDT", "ATOM-USDT",
}

// Timeframes are the bar intervals the advisor accepts.
var Timeframes = []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d"}

// Control ranges.
const (
	MinCapital  = 10
	MinLeverage = 1
	MaxLeverage = 100
)

// EnvFile is loaded into the environment before overrides are applied. A missing file is ignored.
var EnvFile = ".env"

// Config holds all application configuration.
type Config struct {
	Exchange struct {
		Name       string  `yaml:"name"`
		BaseURL    string  `yaml:"base_url"`
		APIKey     string  `yaml:"api_key"`
		SecretKey  string  `yaml:"secret_key"`
		Limit      int     `yaml:"limit"`
		RatePerSec float64 `yaml:"rate_per_sec"`
	} `yaml:"exchange"`
	Analysis struct {
		Symbol        string  `yaml:"symbol"`
		Timeframe     string  `yaml:"timeframe"`
		Capital       float64 `yaml:"capital"`
		Leverage      int     `yaml:"leverage"`
		StopLossPct   float64 `yaml:"stop_loss_pct"`
		TakeProfitPct float64 `yaml:"take_profit_pct"`
		StopPolicy    string  `yaml:"stop_policy"`
	} `yaml:"analysis"`
	Log struct {
		Backend    string `yaml:"backend"`
		JSONPath   string `yaml:"json_path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"log"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then the .env file, then applies environment variable overrides.
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

	if err := godotenv.Load(EnvFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	// Environment variable overrides
	strs := map[string]*string{
		"EXCHANGE":            &cfg.Exchange.Name,
		"EXCHANGE_BASE_URL":   &cfg.Exchange.BaseURL,
		"EXCHANGE_API_KEY":    &cfg.Exchange.APIKey,
		"EXCHANGE_SECRET_KEY": &cfg.Exchange.SecretKey,
		"SYMBOL":              &cfg.Analysis.Symbol,
		"TIMEFRAME":           &cfg.Analysis.Timeframe,
		"LOG_BACKEND":         &cfg.Log.Backend,
		"LOG_JSON_PATH":       &cfg.Log.JSONPath,
		"SQLITE_PATH":         &cfg.Log.SQLitePath,
		"SCHEDULE_CRON":       &cfg.Schedule.Cron,
		"TELEGRAM_BOT_TOKEN":  &cfg.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":    &cfg.Telegram.ChatID,
		"METRICS_LISTEN":      &cfg.Metrics.Listen,
		"HTTPS_PROXY":         &cfg.Proxy,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("CAPITAL"); v != "" {
		capital, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse CAPITAL: %w", err)
		}
		cfg.Analysis.Capital = capital
	}
	if v := os.Getenv("LEVERAGE"); v != "" {
		leverage, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse LEVERAGE: %w", err)
		}
		cfg.Analysis.Leverage = leverage
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Exchange.Name == "" {
		c.Exchange.Name = "okx"
	}
	if c.Exchange.Limit == 0 {
		c.Exchange.Limit = 300
	}
	if c.Exchange.RatePerSec == 0 {
		c.Exchange.RatePerSec = 5
	}
	if c.Analysis.Symbol == "" {
		c.Analysis.Symbol = "BTC-USDT"
	}
	if c.Analysis.Timeframe == "" {
		c.Analysis.Timeframe = "1h"
	}
	if c.Analysis.Capital == 0 {
		c.Analysis.Capital = 5000
	}
	if c.Analysis.Leverage == 0 {
		c.Analysis.Leverage = 10
	}
	if c.Analysis.StopLossPct == 0 {
		c.Analysis.StopLossPct = 0.01
	}
	if c.Analysis.TakeProfitPct == 0 {
		c.Analysis.TakeProfitPct = 0.015
	}
	if c.Analysis.StopPolicy == "" {
		c.Analysis.StopPolicy = "fixed"
	}
	if c.Log.Backend == "" {
		c.Log.Backend = "json"
	}
	if c.Log.JSONPath == "" {
		c.Log.JSONPath = "signals_history.json"
	}
	if c.Log.SQLitePath == "" {
		c.Log.SQLitePath = "data/signals.db"
	}
}

// Validate checks the analysis controls and the backend choices.
func (c *Config) Validate() error {
	if !slices.Contains(Symbols, c.Analysis.Symbol) {
		return fmt.Errorf("analysis.symbol %q is not supported", c.Analysis.Symbol)
	}
	if !slices.Contains(Timeframes, c.Analysis.Timeframe) {
		return fmt.Errorf("analysis.timeframe %q is not supported", c.Analysis.Timeframe)
	}
	if c.Analysis.Capital < MinCapital {
		return fmt.Errorf("analysis.capital must be at least %d", MinCapital)
	}
	if c.Analysis.Leverage < MinLeverage || c.Analysis.Leverage > MaxLeverage {
		return fmt.Errorf("analysis.leverage must be between %d and %d", MinLeverage, MaxLeverage)
	}
	if c.Analysis.StopLossPct <= 0 || c.Analysis.StopLossPct >= 1 {
		return fmt.Errorf("analysis.stop_loss_pct must be in (0, 1)")
	}
	if c.Analysis.TakeProfitPct <= 0 || c.Analysis.TakeProfitPct >= 1 {
		return fmt.Errorf("analysis.take_profit_pct must be in (0, 1)")
	}
	switch c.Analysis.StopPolicy {
	case "fixed", "directional":
	default:
		return fmt.Errorf("analysis.stop_policy %q is not supported", c.Analysis.StopPolicy)
	}
	switch c.Exchange.Name {
	case "okx", "binance", "mock":
	default:
		return fmt.Errorf("exchange.name %q is not supported", c.Exchange.Name)
	}
	if c.Exchange.Limit < 1 {
		return fmt.Errorf("exchange.limit must be positive")
	}
	switch c.Log.Backend {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("log.backend %q is not supported", c.Log.Backend)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// LogPath returns the file used by the configured log backend.
func (c *Config) LogPath() string {
	if c.Log.Backend == "sqlite" {
		return c.Log.SQLitePath
	}
	return c.Log.JSONPath
}
