// Package watch feeds pages dropped into an inbox directory to a callback.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	pimage "panel-splitter/internal/image"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"
)

// Watcher reports supported images created in a directory. Scanners and
// copy tools write files in several chunks, so a page is only reported once
// no event for it has arrived for the settle interval.
type Watcher struct {
	dir       string
	settle    time.Duration
	logger    *log.Logger
	onNewPage func(path string) // Called from a background goroutine
	limit     int64             // Concurrent onNewPage calls

	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	sem     *semaphore.Weighted
	running sync.WaitGroup

	mu      sync.Mutex
	stopped bool
	pending map[string]*time.Timer
}

// New creates a watcher for dir. A nil logger uses log.Default().
func New(dir string, settle time.Duration, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		dir:     dir,
		settle:  settle,
		logger:  logger,
		limit:   1,
		pending: make(map[string]*time.Timer),
	}
}

// OnNewPage sets the callback invoked with the path of every settled page.
func (w *Watcher) OnNewPage(callback func(path string)) {
	w.onNewPage = callback
}

// SetConcurrency bounds how many callbacks run at once. Pages that settle
// while all slots are busy wait for one. Values below 1 mean 1.
// Must be called before Start.
func (w *Watcher) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	w.limit = int64(n)
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.sem = semaphore.NewWeighted(w.limit)

	w.mu.Lock()
	w.stopped = false
	w.mu.Unlock()

	go w.watchLoop()
	return nil
}

// Stop stops watching and drops pages that have not settled or are still
// waiting for a slot. It returns once every running callback has finished.
func (w *Watcher) Stop() {
	if w.stopCh == nil {
		return
	}
	close(w.stopCh)
	<-w.doneCh
	w.fsw.Close()
	w.stopCh = nil

	w.mu.Lock()
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.cancel()
	w.running.Wait()
}

func (w *Watcher) watchLoop() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.touch(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Printf("Watch: %v", err)
		}
	}
}

// touch (re)arms the settle timer for path.
func (w *Watcher) touch(path string) {
	if !pimage.IsSupportedFormat(path) {
		return
	}
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() { w.settled(path) })
}

// settled runs the callback for path once a slot is free.
func (w *Watcher) settled(path string) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.running.Add(1)
	w.mu.Unlock()
	defer w.running.Done()

	if err := w.sem.Acquire(w.ctx, 1); err != nil {
		w.logger.Printf("Watch: dropped %s: %v", path, err)
		return
	}
	defer w.sem.Release(1)

	if w.onNewPage != nil {
		w.onNewPage(path)
	}
}
