// Hot reloading of the editing limits file. Primarily a development
// convenience: tune layout spacing or history depth without restarting
// the server.
package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	domaincfg "github.com/shalles/web-mind/domain/config"
)

const debounceDelay = 500 * time.Millisecond

// LimitsWatcher watches the limits file and rebuilds the domain
// configuration when it changes. Invalid files are rejected; the last
// good configuration stays active.
type LimitsWatcher struct {
	serverCfg *Config
	logger    *zap.Logger

	mu        sync.RWMutex
	current   *domaincfg.DomainConfig
	callbacks []func(*domaincfg.DomainConfig)

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	stopped sync.Once
}

// NewLimitsWatcher creates a watcher seeded with the current limits.
// Without a limits file there is nothing to watch and the watcher is
// inert.
func NewLimitsWatcher(serverCfg *Config, initial *domaincfg.DomainConfig, logger *zap.Logger) (*LimitsWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &LimitsWatcher{
		serverCfg: serverCfg,
		logger:    logger,
		current:   initial,
		stopCh:    make(chan struct{}),
	}

	if serverCfg.LimitsFile == "" {
		logger.Info("Limits hot reloading disabled, no limits file configured")
		return w, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on
	// save, which swaps the inode a file watch is bound to.
	dir := filepath.Dir(serverCfg.LimitsFile)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.watcher = fsWatcher
	go w.watchLoop()

	logger.Info("Limits hot reloading enabled",
		zap.String("file", serverCfg.LimitsFile),
	)
	return w, nil
}

// Current returns the active domain configuration.
func (w *LimitsWatcher) Current() *domaincfg.DomainConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after each successful reload.
func (w *LimitsWatcher) OnChange(callback func(*domaincfg.DomainConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Stop stops the watcher.
func (w *LimitsWatcher) Stop() {
	w.stopped.Do(func() {
		close(w.stopCh)
		if w.watcher != nil {
			w.watcher.Close()
		}
	})
}

// watchLoop monitors for file changes and triggers debounced reloads.
func (w *LimitsWatcher) watchLoop() {
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.serverCfg.LimitsFile) {
				continue
			}

			w.logger.Info("Limits file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			w.logger.Info("Stopping limits watcher")
			return
		}
	}
}

// reload rebuilds the domain configuration and swaps it in if valid.
func (w *LimitsWatcher) reload() {
	next, err := w.serverCfg.DomainConfig()
	if err != nil {
		w.logger.Error("Rejected limits reload", zap.Error(err))
		return
	}

	w.mu.Lock()
	if *w.current == *next {
		w.mu.Unlock()
		w.logger.Debug("Limits unchanged after reload")
		return
	}
	w.current = next
	callbacks := make([]func(*domaincfg.DomainConfig), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for i, callback := range callbacks {
		go func(idx int, cb func(*domaincfg.DomainConfig)) {
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("Limits callback panicked",
						zap.Int("callback_index", idx),
						zap.Any("panic", r),
					)
				}
			}()
			cb(next)
		}(i, callback)
	}

	w.logger.Info("Limits reloaded",
		zap.Int("callbacks_notified", len(callbacks)),
	)
}
