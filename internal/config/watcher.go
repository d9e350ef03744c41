package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigEvent is a reload of the watched config file, or a watch error.
type ConfigEvent struct {
	Path   string
	Config *Config
	Error  error
}

// Watcher monitors a single config file for changes. Interval mode uses it
// to pick up edits between runs without restarting the coordinator.
type Watcher struct {
	loader   *Loader
	path     string
	watcher  *fsnotify.Watcher
	events   chan ConfigEvent
	debounce time.Duration

	started bool
	done    chan struct{}

	mu      sync.RWMutex
	current *Config
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(loader *Loader, path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		loader:   loader,
		path:     path,
		watcher:  fsWatcher,
		events:   make(chan ConfigEvent, 10),
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// Events returns the channel that receives config change events.
func (w *Watcher) Events() <-chan ConfigEvent {
	return w.events
}

// Start loads the config once and begins watching for changes.
func (w *Watcher) Start(ctx context.Context) error {
	cfg, err := w.loader.LoadAndValidate(w.path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	// Watch the directory, not the file: editors replace files by rename,
	// which drops a direct file watch.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.started = true
	go w.run(ctx)
	return nil
}

// Stop closes the underlying fsnotify watcher and waits for the run
// goroutine to exit. The run goroutine owns the events channel and closes
// it itself, so a reload in flight at shutdown can never send on a closed
// channel.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}

// Current returns the most recently loaded valid config.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.Now()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emit(ConfigEvent{Path: w.path, Error: err})

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := w.loader.LoadAndValidate(w.path)
	if err != nil {
		// Keep the last valid config; report the failure.
		w.emit(ConfigEvent{Path: w.path, Error: err})
		return
	}
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
	w.emit(ConfigEvent{Path: w.path, Config: cfg})
}

// emit never blocks: with nobody draining events during shutdown, a
// blocking send would deadlock Stop. A dropped event only costs a
// diagnostic line; Current always has the latest valid config.
func (w *Watcher) emit(event ConfigEvent) {
	select {
	case w.events <- event:
	default:
	}
}
