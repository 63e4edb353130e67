// Package devreload resets cached templates when files under a directory
// change.
package devreload

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Resetter drops cached state so the next use reloads from disk.
type Resetter interface {
	Reset()
}

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher calls Reset on its target once a burst of changes has settled.
type Watcher struct {
	dir      string
	target   Resetter
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long changes must settle before a reset.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New watches dir and each directory below it.
func New(dir string, target Resetter, opts ...Option) (*Watcher, error) {
	if target == nil {
		return nil, fmt.Errorf("devreload: target is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("devreload: create watcher: %w", err)
	}
	w := &Watcher{
		dir:      dir,
		target:   target,
		debounce: 200 * time.Millisecond,
		logger:   zap.NewNop(),
		watcher:  fsw,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		return fsw.Add(path)
	})
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("devreload: watch %s: %w", dir, err)
	}
	return w, nil
}

// Run blocks until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevantOps == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.watchIfDir(event.Name)
			}
			w.logger.Debug("template change", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			pending = true
			timer.Reset(w.debounce)
		case <-timer.C:
			if pending {
				pending = false
				w.target.Reset()
				w.logger.Info("templates reloaded", zap.String("dir", w.dir))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("template watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) watchIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("watch new directory", zap.String("dir", path), zap.Error(err))
	}
}
