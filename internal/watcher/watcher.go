// Package watcher reports changes to open files made outside the editor.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/modal/internal/log"
	"github.com/zjrosen/modal/internal/pubsub"
)

// DefaultDebounce coalesces the bursts of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Config holds watcher configuration options.
type Config struct {
	Debounce time.Duration
}

// Watcher watches the parent directories of registered files and publishes
// pubsub.FileChanged or pubsub.FileRemoved with the file's path once events
// for it have been quiet for the debounce period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	broker    *pubsub.Broker[string]

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher. Call Start to begin processing events.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		broker:    pubsub.NewBroker[string](),
		files:     make(map[string]struct{}),
		dirs:      make(map[string]int),
		done:      make(chan struct{}),
	}, nil
}

// Subscribe returns a channel of file events for the lifetime of ctx.
func (w *Watcher) Subscribe(ctx context.Context) <-chan pubsub.Event[string] {
	return w.broker.Subscribe(ctx)
}

// Broker exposes the event broker, for pubsub.NewListener.
func (w *Watcher) Broker() *pubsub.Broker[string] {
	return w.broker
}

// Add starts watching path. The file itself need not exist yet.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; ok {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = struct{}{}
	log.Debug(log.CatWatcher, "Watching file", "path", abs)
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if err := w.fsWatcher.Remove(dir); err != nil {
		return fmt.Errorf("unwatching directory %s: %w", dir, err)
	}
	return nil
}

// Watched reports whether path is registered.
func (w *Watcher) Watched(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// Start begins processing events in the background.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop terminates the watcher, closes subscriptions and releases resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.broker.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending = make(map[string]pubsub.EventType)
	)

	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			typ, relevant := w.classify(event)
			if !relevant {
				continue
			}
			pending[event.Name] = typ

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timerC():
			for path, typ := range pending {
				log.Debug(log.CatWatcher, "File event", "type", typ, "path", path)
				w.broker.Publish(typ, path)
			}
			clear(pending)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watcher error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// classify maps an fsnotify event on a registered file to the event to publish.
// The last event in a burst wins, so an editor that saves by rename-then-create
// reports a change rather than a removal.
func (w *Watcher) classify(event fsnotify.Event) (pubsub.EventType, bool) {
	w.mu.Lock()
	_, watched := w.files[event.Name]
	w.mu.Unlock()
	if !watched {
		return "", false
	}

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		return pubsub.FileChanged, true
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return pubsub.FileRemoved, true
	default:
		return "", false
	}
}
