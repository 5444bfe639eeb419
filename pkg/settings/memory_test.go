package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ValuesRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	defer store.Close()

	_, err := store.GetValue("software/app", "Missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetValue("software/app", "Key", "first"))
	require.NoError(t, store.SetValue("software/app", "Key", "second"))

	value, err := store.GetValue("software/app", "Key")
	require.NoError(t, err)
	assert.Equal(t, "second", value)

	// Same name under a different root is a different value
	_, err = store.GetValue("software/other", "Key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListSubkeys(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	defer store.Close()

	subkeys, err := store.ListSubkeys("software/app/themes")
	require.NoError(t, err)
	assert.Empty(t, subkeys, "absent root should enumerate empty, not fail")

	require.NoError(t, store.CreateSubkey("software/app/themes", "{id-b}", "Bravo"))
	require.NoError(t, store.CreateSubkey("software/app/themes", "{id-a}", "Alpha"))
	require.NoError(t, store.CreateSubkeyNoDefault("software/app/themes", "{id-c}"))

	subkeys, err = store.ListSubkeys("software/app/themes")
	require.NoError(t, err)
	require.Len(t, subkeys, 3)

	assert.Equal(t, "{id-a}", subkeys[0].Name)
	assert.Equal(t, "Alpha", subkeys[0].Default)
	assert.True(t, subkeys[0].HasDefault)

	assert.Equal(t, "{id-c}", subkeys[2].Name)
	assert.False(t, subkeys[2].HasDefault)
}

func TestMemoryStore_DeleteSubkey(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.CreateSubkey("root", "child", "value"))
	require.NoError(t, store.DeleteSubkey("root", "child"))
	require.NoError(t, store.DeleteSubkey("root", "child"), "deleting a missing subkey is not an error")

	subkeys, err := store.ListSubkeys("root")
	require.NoError(t, err)
	assert.Empty(t, subkeys)
}
