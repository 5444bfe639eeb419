package marker

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnCreateAndWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var changes atomic.Int32

	w, err := New(dir, ".vstheme", func() { changes.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	// Give the watcher time to start
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, ".vstheme")
	require.NoError(t, os.WriteFile(path, []byte("Dark\n"), 0o644))
	time.Sleep(500 * time.Millisecond)

	created := changes.Load()
	assert.GreaterOrEqual(t, created, int32(1), "creation should fire the callback")

	require.NoError(t, os.WriteFile(path, []byte("Light\n"), 0o644))
	time.Sleep(500 * time.Millisecond)

	assert.Greater(t, changes.Load(), created, "modification should fire the callback again")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var changes atomic.Int32

	w, err := New(dir, ".vstheme", func() { changes.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
	time.Sleep(500 * time.Millisecond)

	assert.Equal(t, int32(0), changes.Load())
}

func TestWatcher_AtomicSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var changes atomic.Int32

	w, err := New(dir, ".vstheme", func() { changes.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	time.Sleep(100 * time.Millisecond)

	// Editor-style atomic save: write a temp file, rename over the target
	tmp := filepath.Join(dir, ".vstheme.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("Dark\n"), 0o644))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, ".vstheme")))
	time.Sleep(500 * time.Millisecond)

	assert.GreaterOrEqual(t, changes.Load(), int32(1))
}

func TestNew_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "does-not-exist"), ".vstheme", func() {})
	assert.Error(t, err)
}

func TestNew_NotADirectory(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file, ".vstheme", func() {})
	assert.Error(t, err)
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), ".vstheme", func() {})
	require.NoError(t, err)

	w.Close()
	w.Close()

	// A closed watcher delivers no further events
	var zero Watcher
	zero.Close()
}
