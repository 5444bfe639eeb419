package switcher

import (
	"log/slog"
	"time"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/dispatch"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/settings"
)

// RevertDelay is how long a switched theme stays active before the prior
// setting is restored. Not configurable.
const RevertDelay = 60 * time.Second

// Scheduler arms one-shot revert timers.
//
// Arming never cancels a previously armed timer: each timer fires with
// its own snapshot, in arming order. A later switch therefore does not
// "win" over an earlier pending revert; both restores happen, and the
// net effect after the last timer is the state before the first switch.
// Tests depend on this stacking, so it stays even though cancel-and-
// replace would be the more intuitive policy.
//
// Timers hold no reference back to the watch session; stopping a session
// lets already-armed reverts fire independently. If the process exits
// first the pending revert is simply lost, which only ever means a theme
// stays switched.
type Scheduler struct {
	store      settings.Store
	dispatcher *dispatch.Dispatcher

	// delay can be lowered by tests; production code always runs with
	// RevertDelay.
	delay time.Duration
}

func NewScheduler(store settings.Store, dispatcher *dispatch.Dispatcher) *Scheduler {
	return &Scheduler{
		store:      store,
		dispatcher: dispatcher,
		delay:      RevertDelay,
	}
}

// Arm schedules snap to be written back after the fixed delay. The
// restore runs on the dispatcher goroutine like every other store write
// and is consumed exactly once.
func (s *Scheduler) Arm(snap Snapshot) {
	slog.Debug("Armed theme revert", "delay", s.delay)

	time.AfterFunc(s.delay, func() {
		s.dispatcher.Submit("revert-theme", func() error {
			return s.restore(snap)
		})
	})
}

// restore writes the snapshot back verbatim, in the same value order as
// Apply so a failure window leaves the same kind of inconsistency.
func (s *Scheduler) restore(snap Snapshot) error {
	if err := s.store.SetValue(GeneralRoot, KeyColorThemeNew, snap.ColorThemeNew); err != nil {
		return err
	}
	if err := s.store.SetValue(GeneralRoot, KeyColorTheme, snap.ColorTheme); err != nil {
		slog.Error("Legacy theme value not restored; settings are inconsistent until the next switch",
			"error", err)
		return err
	}

	slog.Info("Reverted active theme to prior setting")
	return nil
}
