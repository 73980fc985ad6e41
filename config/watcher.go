package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/logger"
)

// ChangeCallback is called with the path that changed
type ChangeCallback func(path string) error

// Watcher watches input files (manifests, fabric.toml) and reports debounced changes
type Watcher struct {
	watcher        *fsnotify.Watcher
	watched        map[string]struct{}
	callbacks      []ChangeCallback
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	lastPath       string
	done           chan struct{}
}

// NewWatcher watches the given files. Their directories are watched so that
// editors replacing a file on save are still seen.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		watched:        make(map[string]struct{}),
		debouncePeriod: 300 * time.Millisecond,
		done:           make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	return w, nil
}

// SetDebounce changes the quiet period before callbacks run
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

// OnChange registers a callback
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching in the background
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := w.watched[abs]; !ok {
				continue
			}
			logger.Debugw("Watcher detected change", logger.FieldPath, abs, logger.FieldOperation, ev.Op.String())
			w.schedule(abs)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error", logger.FieldError, err)

		case <-w.done:
			return
		}
	}
}

// schedule debounces rapid changes into one callback round
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastPath = path
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	path := w.lastPath
	callbacks := append([]ChangeCallback{}, w.callbacks...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb(path); err != nil {
			logger.Errorw("Watch callback failed", logger.FieldPath, path, logger.FieldError, err)
		}
	}
}

// Stop stops watching
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
