// Package ingest watches the docs folder and signals when new course
// documents appear.
package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchFolder initializes a filesystem watcher over dir. It returns a channel
// that emits an empty struct when a change is detected and debounced. The
// watcher runs in a goroutine until the context is canceled.
func WatchFolder(ctx context.Context, dir string) <-chan struct{} {
	reloadCh := make(chan struct{}, 1) // Buffer 1 so we don't block sender

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("Failed to create fsnotify watcher", "error", err)
		close(reloadCh)
		return reloadCh
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		slog.Warn("Could not resolve absolute path for docs folder", "dir", dir)
		absDir = dir
	}
	if err := watcher.Add(absDir); err != nil {
		slog.Warn("Could not watch docs folder", "dir", absDir, "error", err)
	} else {
		slog.Debug("Watching docs folder", "dir", absDir)
	}

	go func() {
		defer watcher.Close()
		defer close(reloadCh)

		// Debounce timer logic
		var timer *time.Timer
		debounceDuration := 500 * time.Millisecond

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Writes and creations cover both direct saves and
				// editors doing atomic replace.
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounceDuration, func() {
						slog.Info("Docs folder change detected", "file", event.Name)
						// Non-blocking send
						select {
						case reloadCh <- struct{}{}:
						default:
						}
					})
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Docs folder watcher error", "error", err)
			}
		}
	}()

	return reloadCh
}
