// Package watcher owns the rebuild loop: recursive filesystem watches
// over the source trees, a fixed-interval debounce, and one rebuild per
// dirty window.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the window within which change events are coalesced
// into a single rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Watcher debounces filesystem change events into rebuild passes.
// A failed rebuild is logged and the loop continues; a successful one
// invokes notify so live-reload clients can refresh.
type Watcher struct {
	paths    []string
	debounce time.Duration
	rebuild  func() error
	notify   func()
}

// New returns a watcher over paths. notify may be nil when no live-reload
// channel exists.
func New(paths []string, rebuild func() error, notify func()) *Watcher {
	return &Watcher{
		paths:    paths,
		debounce: DefaultDebounce,
		rebuild:  rebuild,
		notify:   notify,
	}
}

// Run registers the watches and blocks in the debounce loop until ctx is
// cancelled. Registration failures are returned and fatal; anything after
// that is logged and swallowed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	for _, path := range w.paths {
		if err := addRecursive(fsw, path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		slog.Info("watching for changes", "path", path)
	}

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				slog.Debug("change detected", "path", event.Name)
				pending = true
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			slog.Info("rebuilding")
			if err := w.rebuild(); err != nil {
				slog.Error("rebuild failed", "error", err)
				continue
			}
			if w.notify != nil {
				w.notify()
			}
		}
	}
}

// addRecursive registers path and, for directories, every subdirectory.
// fsnotify watches are not recursive on their own.
func addRecursive(fsw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(p)
	})
}
