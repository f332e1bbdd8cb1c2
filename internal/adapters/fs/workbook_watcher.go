package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/motionpanel/internal/ports"
)

// DefaultDebounceDelay coalesces the burst of events a spreadsheet editor
// produces while saving.
const DefaultDebounceDelay = 250 * time.Millisecond

// ReloadFunc is called after the watched file settles.
type ReloadFunc func(ctx context.Context, path string)

// WorkbookWatcher calls a ReloadFunc when the watched workbook is written.
// The parent directory is watched so editors that save via rename are seen.
type WorkbookWatcher struct {
	mu sync.Mutex

	debounceDelay time.Duration
	logger        ports.Logger
	reload        ReloadFunc

	path     string
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// NewWorkbookWatcher creates a watcher. A non-positive delay selects
// DefaultDebounceDelay.
func NewWorkbookWatcher(logger ports.Logger, delay time.Duration, reload ReloadFunc) *WorkbookWatcher {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &WorkbookWatcher{
		debounceDelay: delay,
		logger:        logger,
		reload:        reload,
	}
}

// Watch starts watching path, replacing any previous watch.
func (w *WorkbookWatcher) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.path = abs
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(watchCtx, watcher, abs, path)

	w.logger.Debug("watching workbook", ports.String("path", abs))
	return nil
}

// Path returns the absolute path being watched, or "" when idle.
func (w *WorkbookWatcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Stop ends the current watch and waits for the loop and any running
// reload to return.
func (w *WorkbookWatcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.path = ""
	w.stopDebounceLocked()
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *WorkbookWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher, abs, original string) {
	defer w.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ctx, original)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("workbook watcher error", ports.Err(err))
		}
	}
}

// schedule (re)arms the debounce timer. Each armed timer holds a wg slot,
// released by the callback or by whoever stops the timer before it fires.
func (w *WorkbookWatcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopDebounceLocked()
	w.wg.Add(1)
	w.debounce = time.AfterFunc(w.debounceDelay, func() {
		defer w.wg.Done()
		if ctx.Err() != nil {
			return
		}
		w.logger.Info("workbook changed, reloading", ports.String("path", path))
		w.reload(ctx, path)
	})
}

func (w *WorkbookWatcher) stopDebounceLocked() {
	if w.debounce == nil {
		return
	}
	if w.debounce.Stop() {
		w.wg.Done()
	}
	w.debounce = nil
}
