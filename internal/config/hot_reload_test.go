package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	appconfig "bitwyre-ws-maker/config"
)

const baseConfig = `
env: prod
gateway:
  baseURL: wss://api.test
  apiKey: foo
  apiSecret: bar
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

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestHotReloaderAppliesValidChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	writeConfig(t, path, baseConfig)

	h, err := NewHotReloader(path, HotReloadConfig{Enabled: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("new reloader: %v", err)
	}
	defer h.Stop()

	applied := make(chan appconfig.StrategyParams, 4)
	h.SetReloadHandler(func(s appconfig.StrategyParams) error {
		applied <- s
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := h.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	writeConfig(t, path, strings.ReplaceAll(baseConfig, "maxSpread: 0.01", "maxSpread: 0.05"))

	select {
	case s := <-applied:
		if s.MaxSpread != 0.05 {
			t.Fatalf("maxSpread = %v, want 0.05", s.MaxSpread)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("reload handler never invoked")
	}
}

func TestHotReloaderRejectsInvalidChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	writeConfig(t, path, baseConfig)

	h, err := NewHotReloader(path, HotReloadConfig{Enabled: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("new reloader: %v", err)
	}
	defer h.Stop()

	applied := make(chan appconfig.StrategyParams, 4)
	h.SetReloadHandler(func(s appconfig.StrategyParams) error {
		applied <- s
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := h.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Fails validation (maxSpread < minSpread): must never reach the handler.
	writeConfig(t, path, strings.ReplaceAll(baseConfig, "minSpread: 0.0", "minSpread: 0.5"))

	select {
	case s := <-applied:
		t.Fatalf("invalid config was applied: %+v", s)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestHotReloaderDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	writeConfig(t, path, baseConfig)

	h, err := NewHotReloader(path, HotReloadConfig{Enabled: false}, zap.NewNop())
	if err != nil {
		t.Fatalf("new reloader: %v", err)
	}
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("disabled start must be a no-op: %v", err)
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
