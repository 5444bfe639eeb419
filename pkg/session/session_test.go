package session

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/dispatch"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/notify"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/settings"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/switcher"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/themes"
)

type fixture struct {
	store      *settings.MemoryStore
	dispatcher *dispatch.Dispatcher
	sw         *switcher.Switch
	sess       *WatchSession
	broadcasts atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: settings.NewMemoryStore()}
	f.dispatcher = dispatch.New()
	t.Cleanup(f.dispatcher.Close)

	registry := themes.NewRegistry(f.store)
	require.NoError(t, registry.Install("{id-dark}", "Dark"))
	require.NoError(t, registry.Install("{id-light}", "Light"))

	broadcaster := notify.NewBroadcaster()
	broadcaster.Subscribe(func(notify.Notification) { f.broadcasts.Add(1) })

	f.sw = switcher.New(f.store, broadcaster, switcher.NewScheduler(f.store, f.dispatcher))
	f.sess = New(themes.NewResolver(registry), f.sw, f.dispatcher)
	t.Cleanup(f.sess.Stop)
	return f
}

func (f *fixture) active(t *testing.T) switcher.Snapshot {
	t.Helper()

	snap, err := f.sw.Active()
	require.NoError(t, err)
	return snap
}

// flush waits for all dispatched work so far to complete.
func (f *fixture) flush(t *testing.T) {
	t.Helper()
	require.NoError(t, f.dispatcher.Sync("test-flush", func() error { return nil }))
}

func TestSession_PreexistingMarkerAppliedOnStart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	workspace := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(workspace, MarkerFileName), []byte("Dark\n"), 0o644))

	require.NoError(t, f.sess.Start(workspace))
	f.flush(t)

	assert.Equal(t, switcher.Snapshot{
		ColorTheme:    "1*id-dark",
		ColorThemeNew: "1*{id-dark}",
	}, f.active(t))
	assert.Equal(t, int32(1), f.broadcasts.Load())
}

func TestSession_MarkerEventSwitchesTheme(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	workspace := t.TempDir()

	require.NoError(t, f.sess.Start(workspace))
	require.True(t, f.sess.Watching())
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(workspace, MarkerFileName), []byte("Dark\n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	f.flush(t)

	assert.Equal(t, "1*{id-dark}", f.active(t).ColorThemeNew)
	assert.Equal(t, int32(1), f.broadcasts.Load())
}

func TestSession_SuccessiveEventsEndOnLatestTheme(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	workspace := t.TempDir()

	require.NoError(t, f.sess.Start(workspace))
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(workspace, MarkerFileName)
	require.NoError(t, os.WriteFile(path, []byte("Dark\n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("Light\n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	f.flush(t)

	assert.Equal(t, "1*{id-light}", f.active(t).ColorThemeNew)
}

func TestSession_UnresolvedMarkerLeavesThemeUnchanged(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	workspace := t.TempDir()

	require.NoError(t, f.sess.Start(workspace))
	time.Sleep(100 * time.Millisecond)

	for _, content := range []string{"", "No Such Theme\n"} {
		require.NoError(t, os.WriteFile(filepath.Join(workspace, MarkerFileName), []byte(content), 0o644))
	}
	time.Sleep(500 * time.Millisecond)
	f.flush(t)

	assert.Equal(t, switcher.Snapshot{}, f.active(t))
	assert.Zero(t, f.broadcasts.Load(), "unresolved markers must not broadcast")
}

func TestSession_StartWithMissingWorkspaceStaysIdle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.sess.Start(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
	assert.False(t, f.sess.Watching())

	// An empty workspace path is the "unsaved workspace" case: idle, no error
	require.NoError(t, f.sess.Start(""))
	assert.False(t, f.sess.Watching())
}

func TestSession_RestartReplacesWatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	first := t.TempDir()
	second := t.TempDir()

	require.NoError(t, f.sess.Start(first))
	require.NoError(t, f.sess.Start(second))
	time.Sleep(100 * time.Millisecond)

	// Events in the first workspace no longer matter
	require.NoError(t, os.WriteFile(filepath.Join(first, MarkerFileName), []byte("Dark\n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	f.flush(t)
	assert.Equal(t, switcher.Snapshot{}, f.active(t))

	// The second workspace is live
	require.NoError(t, os.WriteFile(filepath.Join(second, MarkerFileName), []byte("Light\n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	f.flush(t)
	assert.Equal(t, "1*{id-light}", f.active(t).ColorThemeNew)
}

func TestSession_StopEndsWatching(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	workspace := t.TempDir()

	require.NoError(t, f.sess.Start(workspace))
	require.True(t, f.sess.Watching())

	f.sess.Stop()
	assert.False(t, f.sess.Watching())
	f.sess.Stop() // idempotent

	require.NoError(t, os.WriteFile(filepath.Join(workspace, MarkerFileName), []byte("Dark\n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	f.flush(t)
	assert.Equal(t, switcher.Snapshot{}, f.active(t), "no events after Stop")
}
