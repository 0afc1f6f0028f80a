package loader

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher watches one document file and emits the path on Reloads after the
// file changes, coalescing rapid write bursts with a debounce timer.
type Watcher struct {
	path  string
	delay time.Duration
	inner *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	reloads chan string
	errs    chan error
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// Watch starts watching path. A non-positive delay selects the default
// debounce of 100ms.
func Watch(path string, delay time.Duration) (*Watcher, error) {
	if delay <= 0 {
		delay = defaultDebounce
	}
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := inner.Add(path); err != nil {
		inner.Close()
		return nil, err
	}
	w := &Watcher{
		path:    path,
		delay:   delay,
		inner:   inner,
		reloads: make(chan string, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Reloads returns the channel of debounced reload notifications.
func (w *Watcher) Reloads() <-chan string {
	return w.reloads
}

// Errors returns the watcher error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and cancels any pending debounce timer.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	w.mu.Unlock()

	err := w.inner.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.inner.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.inner.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// scheduleReload arms the debounce timer, superseding any pending one.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}
		select {
		case w.reloads <- w.path:
		default:
		}
	})
}
