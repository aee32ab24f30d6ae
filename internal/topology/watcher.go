package topology

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ekisa-team/topology/internal/xfs"
)

// DefaultDebounce is how long a new file must stay quiet before it is loaded.
const DefaultDebounce = 500 * time.Millisecond

// Watcher loads topology files dropped into a directory.
type Watcher struct {
	registry *Registry
	dir      string
	debounce time.Duration
	seen     map[string]bool
	timers   map[string]*time.Timer
	mu       sync.Mutex
	loads    atomic.Uint32
}

// NewWatcher creates a watcher that loads new *.json files from dir into registry.
func NewWatcher(registry *Registry, dir string) *Watcher {
	return &Watcher{
		registry: registry,
		dir:      dir,
		debounce: DefaultDebounce,
		seen:     map[string]bool{},
		timers:   map[string]*time.Timer{},
	}
}

// SetDebounce overrides the quiet period before a new file is loaded.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watcher: watch %s: %w", w.dir, err)
	}

	slog.Info("Watching topology directory", "dir", w.dir)

	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Writes to a file not yet loaded push its load back until it is quiet.
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && w.wants(event.Name) {
				w.schedule(ctx, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Error("Watcher error", "error", err)
		}
	}
}

// LoadCount returns the number of files the watcher has loaded.
func (w *Watcher) LoadCount() uint32 {
	return w.loads.Load()
}

func (w *Watcher) wants(path string) bool {
	return filepath.Ext(path) == ".json" && !xfs.IsHidden(path)
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.seen[path] {
		slog.Debug("Topology file already loaded by watcher", "path", path)
		return
	}

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.load(ctx, path)
	})
}

func (w *Watcher) load(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.timers, path)
	if w.seen[path] {
		w.mu.Unlock()
		return
	}
	w.seen[path] = true
	w.mu.Unlock()

	doc, err := w.registry.Load(ctx, path)
	if err != nil {
		// The next write to the file retries it.
		w.mu.Lock()
		delete(w.seen, path)
		w.mu.Unlock()

		slog.Error("Failed to load topology file", "path", path, "error", err)
		return
	}

	count := w.loads.Add(1)
	id, _ := doc.ID()
	slog.Info("Topology file loaded", "path", path, "topology_id", id, "count", count)
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}
