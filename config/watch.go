package config

import (
	"context"
	"os"
	"time"
)

// Watcher polls a config file's mtime and invokes a callback with the
// reloaded config on change. It is the fallback reload path for platforms
// where the fsnotify-based reloader cannot start.
type Watcher struct {
	Path     string
	Interval time.Duration
}

// Start polls until ctx is cancelled. The mtime observed at startup is the
// baseline, so an unchanged file never triggers the callback. A file that
// fails to load after a change is skipped and re-checked on the next change.
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	if w.Interval <= 0 {
		w.Interval = 2 * time.Second
	}
	var lastMod time.Time
	if info, err := os.Stat(w.Path); err == nil {
		lastMod = info.ModTime()
	}
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, err := os.Stat(w.Path)
			if err != nil {
				continue
			}
			if !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			if cfg, err := LoadWithEnvOverrides(w.Path); err == nil && onUpdate != nil {
				onUpdate(cfg)
			}
		}
	}
}
