// Package watcher observes a drop directory and hands newly arrived
// archives to a handler. Writers rarely deposit an archive atomically,
// so an archive is only reported after its size has been stable for a
// settle interval.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stashware/dredge-cli/internal/logger"
)

// defaultSettle is how long an archive's size must hold still before it
// is considered fully written.
const defaultSettle = 2 * time.Second

// Handler receives the path of a settled archive.
type Handler func(ctx context.Context, archivePath string)

// Watcher monitors one directory for incoming zip archives.
type Watcher struct {
	dir    string
	settle time.Duration
	handle Handler

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for dir. A non-positive settle falls back to
// the default interval.
func New(dir string, settle time.Duration, handle Handler) *Watcher {
	if settle <= 0 {
		settle = defaultSettle
	}
	return &Watcher{
		dir:     dir,
		settle:  settle,
		handle:  handle,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches until the context is cancelled. Archives already present
// in the directory when Run starts are handled first.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	if err := w.sweepExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// sweepExisting handles archives that were dropped before Run started.
func (w *Watcher) sweepExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isArchive(entry.Name()) {
			continue
		}
		w.schedule(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !isArchive(event.Name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		// Every write resets the settle timer.
		w.schedule(ctx, event.Name)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.cancel(event.Name)
	}
}

// schedule arms (or re-arms) the settle timer for an archive.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.fire(ctx, path)
	})
}

func (w *Watcher) fire(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if _, err := os.Stat(path); err != nil {
		// Removed between settling and firing.
		return
	}

	logger.Info("Archive settled: %s", path)
	w.handle(ctx, path)
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func isArchive(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip")
}
