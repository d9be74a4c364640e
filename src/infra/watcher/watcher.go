package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of changes, e.g. an editor saving a file, into one event.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a directory for lyrics and audio file changes and emits events
type Watcher struct {
	watcher       *fsnotify.Watcher
	watchPath     string
	extensions    map[string]bool
	debounce      time.Duration
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	pending       FileEvent
	running       bool
	stopChan      chan struct{}
	eventChan     chan<- FileEvent
}

// NewWatcher creates a new file system watcher that reports files with one of the
// given extensions.
func NewWatcher(eventChan chan<- FileEvent, extensions []string, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	return &Watcher{
		watcher:    watcher,
		extensions: exts,
		debounce:   debounce,
		eventChan:  eventChan,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins watching the path for file changes
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.watchPath = watchPath
	slog.Info("Starting file watcher", "path", watchPath)

	if err := w.watcher.Add(watchPath); err != nil {
		return err
	}

	w.running = true
	go w.watchLoop(ctx)

	slog.Debug("File watcher started successfully")
	return nil
}

// Stop stops the file watcher
func (w *Watcher) Stop() {
	if !w.running {
		return
	}

	slog.Info("Stopping file watcher")
	w.running = false
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	typ, ok := eventType(event.Op)
	if !ok || !w.isSupportedFile(event.Name) {
		return
	}

	slog.Debug("Detected lyrics directory change", "file", event.Name, "type", typ)

	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	w.pending = FileEvent{Path: event.Name, EventType: typ, Timestamp: time.Now()}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.emitDebounceEvent)
}

func eventType(op fsnotify.Op) (FileEventType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return FileCreated, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return FileRemoved, true
	case op.Has(fsnotify.Write):
		return FileModified, true
	}
	return "", false
}

func (w *Watcher) isSupportedFile(filePath string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(filePath))]
}

// emitDebounceEvent emits the last seen event after the debounce period
func (w *Watcher) emitDebounceEvent() {
	w.debounceMutex.Lock()
	event := w.pending
	w.debounceMutex.Unlock()

	select {
	case w.eventChan <- event:
		slog.Debug("Emitted file event after debounce", "path", event.Path)
	default:
		slog.Warn("Event channel full, dropping file event", "path", event.Path)
	}
}
