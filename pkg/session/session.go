// Package session ties a marker-file watch to its resolve/apply/revert
// behavior for one open workspace.
package session

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/dispatch"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/marker"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/switcher"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/themes"
)

// MarkerFileName is the fixed name of the per-workspace marker file
// whose first non-empty line names the desired theme.
const MarkerFileName = ".vstheme"

// WatchSession is either Idle (no watch installed) or Watching one
// workspace directory. At most one watch exists at a time; starting a
// session tears the previous watch down first.
type WatchSession struct {
	resolver   *themes.Resolver
	sw         *switcher.Switch
	dispatcher *dispatch.Dispatcher

	mu         sync.Mutex
	watcher    *marker.Watcher
	markerPath string
}

func New(resolver *themes.Resolver, sw *switcher.Switch, dispatcher *dispatch.Dispatcher) *WatchSession {
	return &WatchSession{
		resolver:   resolver,
		sw:         sw,
		dispatcher: dispatcher,
	}
}

// Start transitions the session to Watching for workspaceDir.
//
// Any prior watch is torn down first, so restarting on a new workspace is
// idempotent. A marker file already present when the watch starts is
// picked up by an immediate resolution pass, before any file events.
//
// If workspaceDir is empty or cannot be watched the session stays Idle
// and the error is returned; the caller decides whether that matters.
// Reverts armed by an earlier workspace keep running either way.
func (s *WatchSession) Start(workspaceDir string) error {
	s.Stop()

	if workspaceDir == "" {
		slog.Debug("Workspace has no on-disk location; staying idle")
		return nil
	}

	w, err := marker.New(workspaceDir, MarkerFileName, s.onMarkerChange)
	if err != nil {
		slog.Warn("Marker watch not installed; staying idle", "dir", workspaceDir, "error", err)
		return err
	}

	s.mu.Lock()
	s.watcher = w
	s.markerPath = filepath.Join(workspaceDir, MarkerFileName)
	s.mu.Unlock()

	slog.Info("Watch session started", "workspace", workspaceDir)

	// Covers a marker file that existed before the watch was installed.
	s.dispatcher.Submit("initial-marker-pass", s.resolveAndApply)
	return nil
}

// Stop transitions the session to Idle, releasing the file watch. Armed
// revert timers are deliberately left running; they restore their own
// snapshots regardless of session state.
func (s *WatchSession) Stop() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.markerPath = ""
	s.mu.Unlock()

	if w != nil {
		w.Close()
		slog.Info("Watch session stopped")
	}
}

// Watching reports whether a file watch is currently installed.
func (s *WatchSession) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watcher != nil
}

// onMarkerChange is called from the watcher goroutine; the actual work
// is marshaled onto the dispatcher so events run one at a time, in
// arrival order.
func (s *WatchSession) onMarkerChange() {
	s.dispatcher.Submit("marker-change", s.resolveAndApply)
}

func (s *WatchSession) resolveAndApply() error {
	s.mu.Lock()
	path := s.markerPath
	s.mu.Unlock()

	if path == "" {
		// Session stopped between the event and this unit running.
		return nil
	}

	themeID, ok := s.resolver.Resolve(path)
	if !ok {
		return nil
	}

	_, err := s.sw.Apply(themeID)
	return err
}
