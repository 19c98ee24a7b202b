package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
env: prod
gateway:
  baseURL: wss://api.test
  apiKey: foo
  apiSecret: bar
  handshakeTimeoutMs: 5000
instrument: btc_usdt_spot
strategy:
  midPrice: "64000"
  qty: "0.01"
  pricePrecision: 2
  qtyPrecision: 4
  minSpread: 0.0
  maxSpread: 0.01
  leverage: 1
  cancelMax: 1
  sleepMs: 5000
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, validConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "prod" || cfg.Gateway.APIKey != "foo" {
		t.Fatalf("unexpected cfg values: %+v", cfg)
	}
	if cfg.Instrument != "btc_usdt_spot" {
		t.Fatalf("instrument = %q", cfg.Instrument)
	}
	if cfg.Strategy.MaxSpread != 0.01 || cfg.Strategy.CancelMax != 1 {
		t.Fatalf("strategy = %+v", cfg.Strategy)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	// Credentials only in env: file values empty, env wins, validation passes.
	path := writeTempConfig(t, strings.ReplaceAll(strings.ReplaceAll(validConfig,
		`apiKey: foo`, `apiKey: ""`),
		`apiSecret: bar`, `apiSecret: ""`))
	t.Setenv("MM_API_KEY", "env-key")
	t.Setenv("MM_API_SECRET", "env-secret")

	cfg, err := LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gateway.APIKey != "env-key" || cfg.Gateway.APISecret != "env-secret" {
		t.Fatalf("env overrides not applied: %+v", cfg.Gateway)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*AppConfig)
		wantSub string
	}{
		{"missing env", func(c *AppConfig) { c.Env = "" }, "env"},
		{"missing credentials", func(c *AppConfig) { c.Gateway.APISecret = "" }, "apiKey/apiSecret"},
		{"missing base url", func(c *AppConfig) { c.Gateway.BaseURL = "" }, "baseURL"},
		{"bad instrument", func(c *AppConfig) { c.Instrument = "btcusdt" }, "instrument"},
		{"bad mid price", func(c *AppConfig) { c.Strategy.MidPrice = "zero" }, "midPrice"},
		{"non-positive mid price", func(c *AppConfig) { c.Strategy.MidPrice = "0" }, "midPrice"},
		{"bad qty", func(c *AppConfig) { c.Strategy.Qty = "-1" }, "qty"},
		{"inverted spreads", func(c *AppConfig) { c.Strategy.MinSpread = 0.02 }, "maxSpread"},
		{"negative cancel max", func(c *AppConfig) { c.Strategy.CancelMax = -1 }, "cancelMax"},
		{"negative sleep", func(c *AppConfig) { c.Strategy.SleepMs = -1 }, "sleepMs"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeTempConfig(t, validConfig))
			if err != nil {
				t.Fatalf("baseline config invalid: %v", err)
			}
			tc.mutate(&cfg)
			err = Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestParseInstrument(t *testing.T) {
	inst, err := ParseInstrument("btc_usdt_spot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Base != "btc" || inst.Quote != "usdt" || inst.Product != "spot" {
		t.Fatalf("parsed %+v", inst)
	}
	if inst.IsFutures() {
		t.Fatal("spot must not be futures")
	}

	fut, err := ParseInstrument("eth_usd_futures")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fut.IsFutures() {
		t.Fatal("futures product not detected")
	}

	for _, bad := range []string{"", "btc", "btc_usdt", "btc__spot", "_usdt_spot"} {
		if _, err := ParseInstrument(bad); err == nil {
			t.Fatalf("instrument %q must be rejected", bad)
		}
	}
}
