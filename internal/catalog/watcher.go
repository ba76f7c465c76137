package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before the
// dataset is reloaded.
const DefaultDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the directory holding the dataset file
// and reloads the catalog whenever that file is written, created or renamed
// into place. Bursts of events are debounced. Watch returns when ctx is
// cancelled.
//
// The directory rather than the file is watched so that editors and deploy
// tools that replace the file atomically are still observed.
func Watch(ctx context.Context, c *Catalog, path string, debounce time.Duration, logger *slog.Logger) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(target)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", target))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(debounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			logger.Debug("watcher: reloading", slog.String("path", target))
			// Failures are logged and published by the catalog itself.
			_ = c.Load(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", target), slog.String("op", ev.Op.String()))
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
