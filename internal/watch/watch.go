// Package watch reports changes to a fixed set of settings files.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 300 * time.Millisecond

// ErrNothingToWatch is returned when none of the files' directories exist.
var ErrNothingToWatch = errors.New("watch: no watchable directories")

// Handler receives the files that changed, sorted.
type Handler func(changed []string)

// Watcher monitors settings files. It watches their parent directories so
// that editors which replace a file on save are still seen.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]struct{}
	debounce  time.Duration
	pending   map[string]time.Time
	mu        sync.Mutex
}

// New creates a watcher for paths. Directories that do not exist are
// skipped; a debounce of zero means DefaultDebounce.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		files:     make(map[string]struct{}, len(paths)),
		debounce:  debounce,
		pending:   make(map[string]time.Time),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			slog.Debug("skip settings directory", "dir", dir, "error", err)
		}
	}

	if len(fsWatcher.WatchList()) == 0 {
		fsWatcher.Close()
		return nil, ErrNothingToWatch
	}
	return w, nil
}

// WatchedDirs returns the directories being watched.
func (w *Watcher) WatchedDirs() []string {
	dirs := w.fsWatcher.WatchList()
	slices.Sort(dirs)
	return dirs
}

// Run delivers debounced changes to fn until ctx is done, then closes the
// watcher.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	defer w.fsWatcher.Close()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("settings watcher error", "error", err)
		case <-ticker.C:
			if changed := w.flushPending(time.Now()); len(changed) > 0 {
				fn(changed)
			}
		}
	}
}

// handleEvent records a change to one of the watched files.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[path]; !ok {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// flushPending returns the paths that have been stable for the debounce
// interval and forgets them.
func (w *Watcher) flushPending(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(ready)
	return ready
}
