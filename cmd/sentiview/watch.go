package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oukeidos/sentiview/internal/logger"
)

var watchDebounce = 300 * time.Millisecond

// watchFile runs fn once, then again after every write to path until ctx is
// done. The parent directory is watched so editors that replace the file on
// save are still seen. A failed run is logged and watching continues.
func watchFile(ctx context.Context, path string, fn func(context.Context) error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	target = filepath.Clean(target)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Debug("Failed to close watcher", "error", err)
		}
	}()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	runOnce := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Analysis failed", "error", err)
		}
	}
	runOnce()
	logger.Info("Watching for changes (Ctrl+C to stop)", "path", path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)
		case <-fire:
			fire = nil
			logger.Debug("Input changed", "path", path)
			runOnce()
		}
	}
}
