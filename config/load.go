package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env        string         `yaml:"env"`
	Gateway    GatewayConfig  `yaml:"gateway"`
	Instrument string         `yaml:"instrument"`
	Strategy   StrategyParams `yaml:"strategy"`
}

// GatewayConfig carries connection settings and session credentials. The
// secret is read once at startup and never logged or persisted by the bot.
type GatewayConfig struct {
	BaseURL            string `yaml:"baseURL"`
	APIKey             string `yaml:"apiKey"`
	APISecret          string `yaml:"apiSecret"`
	HandshakeTimeoutMs int    `yaml:"handshakeTimeoutMs"`
}

// StrategyParams drives quote proposal and the duty cycle.
type StrategyParams struct {
	MidPrice       string  `yaml:"midPrice"`       // initial reference price
	Qty            string  `yaml:"qty"`            // order size
	PricePrecision int32   `yaml:"pricePrecision"` // rounding digits for price
	QtyPrecision   int32   `yaml:"qtyPrecision"`   // rounding digits for qty
	MinSpread      float64 `yaml:"minSpread"`      // fractional offset bounds
	MaxSpread      float64 `yaml:"maxSpread"`
	Leverage       int     `yaml:"leverage"`  // used for futures instruments
	CancelMax      int     `yaml:"cancelMax"` // max cancels per cycle
	SleepMs        int     `yaml:"sleepMs"`   // inter-step pause (rate limits)
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	cfg, err := parse(path)
	if err != nil {
		return cfg, err
	}
	return cfg, Validate(cfg)
}

// LoadWithEnvOverrides loads config then overrides credentials from the
// environment if present, validating only after the overrides so credentials
// may live solely in the environment. A .env file in the working directory is
// folded into the environment first; a missing file is not an error.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	_ = godotenv.Load()
	cfg, err := parse(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("MM_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("MM_API_SECRET"); v != "" {
		cfg.Gateway.APISecret = v
	}
	return cfg, Validate(cfg)
}

func parse(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Validate ensures required fields are present and numerically sane.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Gateway.BaseURL == "" {
		return errors.New("gateway.baseURL is required")
	}
	if cfg.Gateway.APIKey == "" || cfg.Gateway.APISecret == "" {
		return errors.New("gateway.apiKey/apiSecret is required (or MM_API_KEY/MM_API_SECRET)")
	}
	if cfg.Gateway.HandshakeTimeoutMs < 0 {
		return errors.New("gateway.handshakeTimeoutMs must be >= 0")
	}
	if cfg.Instrument == "" {
		return errors.New("instrument is required")
	}
	if _, err := ParseInstrument(cfg.Instrument); err != nil {
		return err
	}
	return ValidateStrategy(cfg.Strategy)
}

// ValidateStrategy checks the quote parameters on their own; the hot reloader
// reuses it before applying a changed file.
func ValidateStrategy(s StrategyParams) error {
	mid, err := decimal.NewFromString(s.MidPrice)
	if err != nil {
		return fmt.Errorf("strategy.midPrice: %w", err)
	}
	if mid.Sign() <= 0 {
		return errors.New("strategy.midPrice must be > 0")
	}
	qty, err := decimal.NewFromString(s.Qty)
	if err != nil {
		return fmt.Errorf("strategy.qty: %w", err)
	}
	if qty.Sign() <= 0 {
		return errors.New("strategy.qty must be > 0")
	}
	if s.PricePrecision < 0 || s.QtyPrecision < 0 {
		return errors.New("strategy precisions must be >= 0")
	}
	if s.MinSpread < 0 {
		return errors.New("strategy.minSpread must be >= 0")
	}
	if s.MaxSpread < s.MinSpread {
		return errors.New("strategy.maxSpread must be >= minSpread")
	}
	if s.Leverage < 0 {
		return errors.New("strategy.leverage must be >= 0")
	}
	if s.CancelMax < 0 {
		return errors.New("strategy.cancelMax must be >= 0")
	}
	if s.SleepMs < 0 {
		return errors.New("strategy.sleepMs must be >= 0")
	}
	return nil
}
