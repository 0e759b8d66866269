package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	return NewFileStorage(filepath.Join(t.TempDir(), "credentials.json"))
}

func TestFileStorage_GetMissing(t *testing.T) {
	storage := newTestStorage(t)

	_, ok := storage.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStorage_SetGetDelete(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Set(KeyToken, "abc123"))
	require.NoError(t, storage.Set(KeyEmail, "admin@example.com"))

	token, ok := storage.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)

	require.NoError(t, storage.Delete(KeyToken))
	_, ok = storage.Get(KeyToken)
	assert.False(t, ok)

	// The other entry is untouched.
	email, ok := storage.Get(KeyEmail)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", email)
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	first := NewFileStorage(path)
	require.NoError(t, first.Set(KeyToken, "abc123"))

	second := NewFileStorage(path)
	token, ok := second.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestFileStorage_DeleteMissingKey(t *testing.T) {
	storage := newTestStorage(t)
	assert.NoError(t, storage.Delete("never-set"))
}

func TestFileStorage_CorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	storage := NewFileStorage(path)
	_, ok := storage.Get(KeyToken)
	assert.False(t, ok)

	require.NoError(t, storage.Set(KeyToken, "abc123"))
	token, ok := storage.Get(KeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
}

func TestFileStorage_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	storage := NewFileStorage(path)
	require.NoError(t, storage.Set(KeyToken, "abc123"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
