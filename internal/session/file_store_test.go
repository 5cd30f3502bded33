package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/session"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := session.NewFileStore(path)

	require.NoError(t, store.Set(session.KeyToken, "tok-1"))
	require.NoError(t, store.Set(session.KeyDevice, "DEV-1"))

	// A fresh store over the same file sees the persisted values.
	reopened := session.NewFileStore(path)
	token, ok := reopened.Get(session.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, reopened.Delete(session.KeyDevice))
	_, ok = reopened.Get(session.KeyDevice)
	assert.False(t, ok)
}

func TestFileStore_ClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := session.NewFileStore(path)

	require.NoError(t, store.Set(session.KeyToken, "tok"))
	require.NoError(t, store.Clear())

	_, ok := store.Get(session.KeyToken)
	assert.False(t, ok)
}

func TestFileStore_CorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	store := session.NewFileStore(path)
	_, ok := store.Get(session.KeyToken)
	assert.False(t, ok)

	// Writing after corruption starts from a clean slate.
	require.NoError(t, store.Set(session.KeyToken, "tok"))
	token, ok := store.Get(session.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "missing", "state.json"))
	_, ok := store.Get(session.KeyToken)
	assert.False(t, ok)
}
