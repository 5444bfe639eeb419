// Package switcher owns the active-theme settings: applying a new theme,
// broadcasting the change, and scheduling the automatic revert.
package switcher

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/notify"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/settings"
)

// GeneralRoot is the settings-store root holding the active-theme values.
const GeneralRoot = "software/autothemeswitcher/general"

// The active theme is persisted twice, in two historical encodings, and
// both values must always be written together: older host code reads
// KeyColorTheme (id with its brace delimiters stripped), newer code reads
// KeyColorThemeNew (id verbatim).
const (
	KeyColorTheme    = "ColorTheme"
	KeyColorThemeNew = "ColorThemeNew"
)

// typeTag is the serialization type tag the settings store's convention
// prefixes to every string value, separated by '*'.
const typeTag = "1"

// Snapshot is the active-theme setting pair as read from the store.
// The revert writes a Snapshot back verbatim, byte for byte.
type Snapshot struct {
	ColorTheme    string
	ColorThemeNew string
}

// Result reports what Apply did.
type Result int

const (
	// Noop means the requested theme was already active; nothing was
	// written, broadcast, or scheduled.
	Noop Result = iota
	// Applied means both settings were written, the change was
	// broadcast, and a revert was armed.
	Applied
)

// EncodeStripped returns the legacy encoding: the id with its surrounding
// '{'/'}' delimiters stripped, behind the type tag.
func EncodeStripped(themeID string) string {
	id := strings.TrimSuffix(strings.TrimPrefix(themeID, "{"), "}")
	return typeTag + "*" + id
}

// EncodeVerbatim returns the newer encoding: the id exactly as given,
// behind the type tag.
func EncodeVerbatim(themeID string) string {
	return typeTag + "*" + themeID
}

// Switch applies themes to the settings store.
//
// Apply must run on the dispatcher goroutine; the store's synchronization
// model assumes a single writer.
type Switch struct {
	store       settings.Store
	broadcaster *notify.Broadcaster
	scheduler   *Scheduler
}

func New(store settings.Store, broadcaster *notify.Broadcaster, scheduler *Scheduler) *Switch {
	return &Switch{
		store:       store,
		broadcaster: broadcaster,
		scheduler:   scheduler,
	}
}

// Apply makes themeID the active theme.
//
// It reads the current setting pair, and if the computed target values
// already match, returns Noop without writing, broadcasting, or arming a
// revert. Otherwise it writes both encodings (id format first, then the
// legacy format), broadcasts a color-settings-changed notification, and
// hands the pre-write snapshot to the revert scheduler.
//
// If the store cannot be read, or the first write fails, nothing has
// changed and the error is returned. If the second write fails after the
// first succeeded the store is left inconsistent; there is no
// store-level transaction to lean on, so the condition is logged and
// reported as a failure.
func (s *Switch) Apply(themeID string) (Result, error) {
	prior, err := s.readSnapshot()
	if err != nil {
		return Noop, fmt.Errorf("failed to read active theme: %w", err)
	}

	target := Snapshot{
		ColorTheme:    EncodeStripped(themeID),
		ColorThemeNew: EncodeVerbatim(themeID),
	}
	if target == prior {
		slog.Debug("Theme already active", "theme", themeID)
		return Noop, nil
	}

	if err := s.store.SetValue(GeneralRoot, KeyColorThemeNew, target.ColorThemeNew); err != nil {
		return Noop, fmt.Errorf("failed to write active theme: %w", err)
	}
	if err := s.store.SetValue(GeneralRoot, KeyColorTheme, target.ColorTheme); err != nil {
		slog.Error("Legacy theme value not written; settings are inconsistent until the next switch",
			"theme", themeID, "error", err)
		return Noop, fmt.Errorf("failed to write legacy theme value: %w", err)
	}

	slog.Info("Switched active theme", "theme", themeID)
	s.broadcaster.Publish(notify.Notification{Kind: notify.KindColorSettingsChanged})
	s.scheduler.Arm(prior)

	return Applied, nil
}

// readSnapshot reads both active-theme values. A value that has never
// been written reads as empty, so a first-ever switch snapshots (and
// later restores) the empty pair.
func (s *Switch) readSnapshot() (Snapshot, error) {
	var snap Snapshot
	var err error

	snap.ColorTheme, err = s.store.GetValue(GeneralRoot, KeyColorTheme)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return Snapshot{}, err
	}
	snap.ColorThemeNew, err = s.store.GetValue(GeneralRoot, KeyColorThemeNew)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		return Snapshot{}, err
	}
	return snap, nil
}

// Active returns the current active-theme setting pair.
func (s *Switch) Active() (Snapshot, error) {
	return s.readSnapshot()
}
