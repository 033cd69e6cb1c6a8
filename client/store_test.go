package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		dir := t.TempDir() + "/cache"
		store, err := NewFileStore(dir)
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("empty dir", func(t *testing.T) {
		_, err := NewFileStore("")
		assert.Equal(t, ErrDirRequired, err)
	})
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := store.Get("absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, store.Set("dataset", []byte(`{"a":1}`)))

		data, ok, err := store.Get("dataset")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte(`{"a":1}`), data)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, store.Set("key", []byte("one")))
		require.NoError(t, store.Set("key", []byte("two")))

		data, ok, err := store.Get("key")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("two"), data)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set("gone", []byte("x")))
		require.NoError(t, store.Delete("gone"))

		_, ok, err := store.Get("gone")
		require.NoError(t, err)
		assert.False(t, ok)

		// deleting again is fine
		require.NoError(t, store.Delete("gone"))
	})
}
