package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk. The parent
// directory is watched so editors that replace the file on save are seen.
type Watcher struct {
	path     string
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{path: abs, log: log, watcher: w, debounce: reloadDebounce}, nil
}

// Run calls fn with every successfully reloaded config until ctx is done.
// Invalid files are logged and skipped. Run closes the underlying watcher
// before returning.
func (w *Watcher) Run(ctx context.Context, fn func(*Config)) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("config watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.log.Warn("config reload skipped", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.log.Info("config reloaded", zap.String("path", w.path), zap.Stringer("theme", cfg.Theme))
			fn(cfg)
		}
	}
}
