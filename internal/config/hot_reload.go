package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	appconfig "bitwyre-ws-maker/config"
)

// HotReloadConfig controls the file watcher.
type HotReloadConfig struct {
	Enabled      bool
	CooldownTime time.Duration // minimum gap between applied reloads
}

// DefaultHotReloadConfig returns sane defaults.
func DefaultHotReloadConfig() HotReloadConfig {
	return HotReloadConfig{
		Enabled:      true,
		CooldownTime: 5 * time.Second,
	}
}

// HotReloader watches the config file and pushes validated strategy-parameter
// updates to a handler while the bot keeps running. Only the strategy section
// is live-reloadable; credentials and endpoints require a restart.
type HotReloader struct {
	config     HotReloadConfig
	configPath string
	watcher    *fsnotify.Watcher
	log        *zap.Logger

	mu         sync.Mutex
	lastReload time.Time
	handler    func(appconfig.StrategyParams) error

	stopChan chan struct{}
	doneChan chan struct{}
}

// NewHotReloader builds a reloader for configPath.
func NewHotReloader(configPath string, cfg HotReloadConfig, log *zap.Logger) (*HotReloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HotReloader{
		config:     cfg,
		configPath: configPath,
		watcher:    watcher,
		log:        log,
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}, nil
}

// SetReloadHandler registers the callback invoked with each validated
// strategy-parameter set.
func (h *HotReloader) SetReloadHandler(handler func(appconfig.StrategyParams) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

// Start begins watching; no-op when disabled.
func (h *HotReloader) Start(ctx context.Context) error {
	if !h.config.Enabled {
		return nil
	}
	if err := h.watcher.Add(h.configPath); err != nil {
		return fmt.Errorf("watch config file: %w", err)
	}
	go h.watch(ctx)
	return nil
}

// Stop shuts the watcher down.
func (h *HotReloader) Stop() error {
	if !h.config.Enabled {
		return h.watcher.Close()
	}
	select {
	case <-h.stopChan:
	default:
		close(h.stopChan)
	}
	select {
	case <-h.doneChan:
	case <-time.After(1 * time.Second):
	}
	return h.watcher.Close()
}

func (h *HotReloader) watch(ctx context.Context) {
	defer close(h.doneChan)
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stopChan:
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {
				h.handleConfigChange()
			}
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (h *HotReloader) handleConfigChange() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if time.Since(h.lastReload) < h.config.CooldownTime {
		return
	}

	cfg, err := appconfig.LoadWithEnvOverrides(h.configPath)
	if err != nil {
		h.log.Warn("config reload rejected", zap.Error(err))
		return
	}
	if h.handler != nil {
		if err := h.handler(cfg.Strategy); err != nil {
			h.log.Warn("config reload apply failed", zap.Error(err))
			return
		}
	}
	h.lastReload = time.Now()
	h.log.Info("strategy parameters reloaded",
		zap.Float64("min_spread", cfg.Strategy.MinSpread),
		zap.Float64("max_spread", cfg.Strategy.MaxSpread),
		zap.Int("cancel_max", cfg.Strategy.CancelMax),
		zap.Int("sleep_ms", cfg.Strategy.SleepMs))
}
