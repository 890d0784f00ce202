// Package config loads the SmartConfig YAML file the CLI and its
// subcommands run with, and optionally watches it for changes so a long-
// running batch invocation can pick up edits without restarting.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"taxonomyshaper/internal/taxonomy"
)

// Load reads and validates a SmartConfig YAML file.
func Load(path string) (taxonomy.SmartConfig, error) {
	cfg := taxonomy.DefaultSmartConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return taxonomy.SmartConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return taxonomy.SmartConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.CategoryOverrides == nil {
		cfg.CategoryOverrides = map[string]taxonomy.CategoryOverride{}
	}
	if err := cfg.Validate(); err != nil {
		return taxonomy.SmartConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Loader holds the last successfully loaded SmartConfig and, once Watch is
// called, keeps it current as the backing file changes on disk. A failed
// reload (unreadable file, malformed YAML, or a value Validate rejects)
// leaves the previously loaded config in place and is only logged, so a
// typo mid-edit never takes a running batch down.
type Loader struct {
	path string
	log  *zap.Logger

	mu      sync.RWMutex
	current taxonomy.SmartConfig

	watcher *fsnotify.Watcher
}

// NewLoader loads path once and returns a Loader wrapping it.
func NewLoader(path string, log *zap.Logger) (*Loader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Loader{path: path, log: log.With(zap.String("component", "config_loader")), current: cfg}, nil
}

// Current returns the most recently loaded SmartConfig.
func (l *Loader) Current() taxonomy.SmartConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Watch starts watching the config file's directory for changes (rather
// than the file itself, since editors and atomic-write tooling commonly
// replace a file via rename, which drops an fsnotify watch on the old
// inode). Reloads happen in a background goroutine until ctx is canceled or
// Close is called.
func (l *Loader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start config watcher: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch config directory %s: %w", dir, err)
	}
	l.watcher = w

	target := filepath.Clean(l.path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				l.reload()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.log.Warn("config watch error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (l *Loader) reload() {
	cfg, err := Load(l.path)
	if err != nil {
		l.log.Warn("config reload failed, keeping previous config", zap.Error(err))
		return
	}
	l.mu.Lock()
	l.current = cfg
	l.mu.Unlock()
	l.log.Info("config reloaded")
}

// Close stops the watcher, if one was started.
func (l *Loader) Close() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}
