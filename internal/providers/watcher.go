package providers

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher keeps a catalog in sync with its overrides file. It watches the
// file's directory rather than the file itself so editors that save by
// rename-and-replace do not silently kill the watch.
type Watcher struct {
	catalog  *Catalog
	path     string
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	stop     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher that reloads the overrides file at path
// into catalog whenever it changes.
func NewWatcher(catalog *Catalog, path string, logger *zap.Logger) (*Watcher, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if path == "" {
		return nil, fmt.Errorf("overrides path is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	return &Watcher{
		catalog: catalog,
		path:    path,
		logger:  logger,
		watcher: fsw,
		stop:    make(chan struct{}),
	}, nil
}

// Start applies the file's current state, then begins watching in a
// background goroutine. An unusable file fails startup; once running,
// reload failures are logged and the previous table stays live.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.reload(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go w.processEvents(ctx)
	return nil
}

// Stop ends the watch and releases the underlying watcher. Safe to call
// more than once, including concurrently.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			if err := w.reload(); err != nil {
				w.logger.Warn("provider overrides reload failed, keeping previous table",
					zap.String("path", w.path),
					zap.Error(err))
				continue
			}
			w.logger.Info("provider overrides reloaded",
				zap.String("path", w.path),
				zap.Stringer("op", event.Op))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("overrides watcher error", zap.Error(err))
		}
	}
}

// reload reads the overrides file and swaps the catalog table. A missing
// file restores the built-in seed.
func (w *Watcher) reload() error {
	o, err := LoadOverrides(w.path)
	if err != nil {
		return err
	}
	w.catalog.ApplyOverrides(o)
	return nil
}
