package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of events an editor's save emits
// into a single reload.
const debounceWindow = 250 * time.Millisecond

// Watcher watches the config file and invokes a callback after changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	onChange func()
	log      *slog.Logger
	done     chan struct{}

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the config file at filePath. onChange
// runs on the watcher goroutine after each settled change.
func NewWatcher(filePath string, onChange func(), log *slog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  watcher,
		filePath: filePath,
		onChange: onChange,
		log:      log,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The containing directory is watched rather than
// the file itself, so atomic rename-over saves keep being seen.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.filePath)); err != nil {
		return err
	}

	go w.watch()
	return nil
}

func (w *Watcher) watch() {
	filename := filepath.Base(w.filePath)

	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounce == nil {
				debounce = time.NewTimer(debounceWindow)
				debounceC = debounce.C
			} else {
				if !debounce.Stop() {
					<-debounce.C
				}
				debounce.Reset(debounceWindow)
			}

		case <-debounceC:
			debounce = nil
			debounceC = nil
			w.log.Debug("config file changed", "file", w.filePath)
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop stops watching. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}
