// Package watch rebuilds on content changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docpipe/internal/content"
	"git.home.luguber.info/inful/docpipe/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc performs one rebuild.
type RebuildFunc func(ctx context.Context) error

// Watcher invalidates cached documents for changed paths and triggers
// debounced rebuilds. Rebuilds never overlap; changes arriving during a
// rebuild schedule exactly one more.
type Watcher struct {
	root     string
	cache    *content.Cache
	rebuild  RebuildFunc
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a Watcher for root. cache may be nil.
func New(root string, cache *content.Cache, rebuild RebuildFunc, opts ...Option) *Watcher {
	w := &Watcher{root: root, cache: cache, rebuild: rebuild, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	absRoot, err := filepath.Abs(w.root)
	if err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()
	if err := addDirsRecursive(fsw, absRoot); err != nil {
		return err
	}

	rebuildReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()
	done := w.startRebuildWorker(ctx, rebuildReq)

	slog.Info("Watching content", logfields.Path(absRoot))
	for {
		select {
		case <-ctx.Done():
			stop()
			<-done
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev, trigger)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fsw, ev.Name)
		}
	}
	if w.cache != nil {
		if n := w.cache.Invalidate(ev.Name); n > 0 {
			slog.Debug("Invalidated cached documents", logfields.Path(ev.Name), logfields.Count(n))
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// newDebouncer returns a request channel, a trigger that (re)arms the timer
// and a stop function that disarms it.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	stopped := false
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

// startRebuildWorker runs rebuilds one at a time until ctx is done. The
// returned channel closes when the worker exits.
func (w *Watcher) startRebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				slog.Info("Change detected; rebuilding")
				start := time.Now()
				if err := w.rebuild(ctx); err != nil {
					slog.Warn("Rebuild failed", logfields.Error(err))
					continue
				}
				slog.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
			}
		}
	}()
	return done
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports events on hidden and editor temp files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return false
}
