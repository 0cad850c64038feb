package spool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driving"
	"github.com/MordecaiM24/recall-sub000/internal/logger"
)

// defaultDebounce coalesces write bursts while an exporter is still
// streaming a batch file.
const defaultDebounce = 400 * time.Millisecond

// Watcher watches a spool directory and imports every *.json batch
// dropped into it. Successfully imported files are deleted; failed
// files stay behind for inspection.
type Watcher struct {
	dir      string
	ingestor driving.Ingestor
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the write-coalescing delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over dir feeding ingestor.
func NewWatcher(dir string, ingestor driving.Ingestor, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:      dir,
		ingestor: ingestor,
		debounce: defaultDebounce,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes batch files already present in the spool directory,
// then blocks watching for new ones until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return fmt.Errorf("create spool dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	logger.Info("Watching spool directory %s", w.dir)
	w.drainExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// drainExisting imports batch files that were present before Run.
func (w *Watcher) drainExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("Reading spool dir: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isBatchFile(entry.Name()) {
			continue
		}
		w.processFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *Watcher) handleEvent(ctx context.Context, ev fsnotify.Event) {
	if !isBatchFile(ev.Name) {
		return
	}
	switch {
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		w.schedule(ctx, ev.Name)
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.cancel(ev.Name)
	}
}

// schedule arms (or re-arms) the debounce timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.processFile(ctx, path)
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// processFile decodes and imports one batch file, deleting it on
// success.
func (w *Watcher) processFile(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Opening %s: %v", path, err)
		return
	}
	items, err := DecodeBatch(f)
	f.Close()
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}

	report, err := w.ingestor.Import(ctx, items)
	if err != nil {
		logger.Warn("Importing %s: %v", path, err)
		return
	}
	if len(report.Failures) > 0 {
		logger.Warn("Importing %s: %d threads failed, leaving file in place",
			path, len(report.Failures))
		return
	}

	logger.Info("Imported %d items from %s", len(report.ItemIDs), filepath.Base(path))
	if err := os.Remove(path); err != nil {
		logger.Warn("Removing %s: %v", path, err)
	}
}

func isBatchFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}
