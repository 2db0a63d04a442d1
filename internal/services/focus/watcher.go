package focus

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/ai-footprint-tui/internal/logger"
	"github.com/j-veylop/ai-footprint-tui/internal/models"
)

// DefaultDebounce coalesces bursts of bridge writes into one trigger.
const DefaultDebounce = 100 * time.Millisecond

// Watcher emits a trigger each time the bridge file changes.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	triggers chan models.Trigger
	stopChan chan struct{}
	done     chan struct{}

	mu            sync.Mutex
	debounceTimer *time.Timer
	closed        bool
}

// NewWatcher starts watching the bridge file at path. The parent directory is
// watched so the file may be created or atomically replaced.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create focus watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Error("failed to close focus watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     path,
		debounce: debounce,
		watcher:  fsw,
		triggers: make(chan models.Trigger, 8),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go w.watchLoop()
	return w, nil
}

// Triggers returns the channel of focus triggers.
func (w *Watcher) Triggers() <-chan models.Trigger {
	return w.triggers
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	name := filepath.Base(w.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("focus watcher error", "error", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.emit)
}

// emit reads the bridge event name and publishes the matching trigger.
func (w *Watcher) emit() {
	trigger := models.TriggerFocusChanged
	if snap, err := ReadSnapshot(w.path); err == nil && snap.Event != "" {
		trigger = models.ParseTrigger(snap.Event)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	select {
	case w.triggers <- trigger:
	default:
		// A pending trigger already covers this change.
		logger.Debug("focus trigger dropped", "trigger", trigger.String())
	}
}

// Close stops the watcher and closes the trigger channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	close(w.stopChan)
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	close(w.triggers)
	w.mu.Unlock()

	return err
}
