// Package marker watches a workspace's theme marker file.
package marker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes exactly one file name inside one directory and signals
// when that file is created or modified. It does NOT read or resolve the
// file itself; the callback runs resolution on the goroutine that owns
// settings access.
//
// The watch is installed on the directory rather than the file because
// editors that save atomically (write temp file, rename over target)
// would otherwise silently detach the watch.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	stopChan chan struct{}
	onChange func()
}

// New starts watching dir for events on the file named name.
// It fails if dir does not exist or is not a directory; callers treat
// that as "no watch installed" rather than a fatal condition.
func New(dir, name string, onChange func()) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %q: not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("cannot watch %q: %w", dir, err)
	}

	w := &Watcher{
		watcher:  fw,
		path:     filepath.Join(dir, name),
		stopChan: make(chan struct{}),
		onChange: onChange,
	}
	go w.watchLoop(fw, w.stopChan)

	slog.Debug("Started watching marker file", "path", w.path)
	return w, nil
}

// Path returns the full path of the watched file.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close unsubscribes the event handlers and releases the OS watch handle.
// It is idempotent and safe to call on a Watcher that never started.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopChan != nil {
		close(w.stopChan)
		w.stopChan = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
		w.watcher = nil
	}
}

func (w *Watcher) watchLoop(fw *fsnotify.Watcher, stopChan chan struct{}) {
	for {
		select {
		case <-stopChan:
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}

			w.mu.Lock()
			targetPath := w.path
			w.mu.Unlock()

			// Basename match instead of full-path match so that atomic
			// saves (temp file renamed onto the target) are caught.
			if filepath.Base(filepath.Clean(event.Name)) != filepath.Base(targetPath) {
				continue
			}

			// Create covers new files, Write covers content changes,
			// Chmod covers attribute changes, Rename covers atomic saves.
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Chmod|fsnotify.Rename) == 0 {
				continue
			}

			slog.Debug("Marker file changed", "path", targetPath, "op", event.Op.String())
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			slog.Warn("Marker file watcher error", "error", err)
		}
	}
}
