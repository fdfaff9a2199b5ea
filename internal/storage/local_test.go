package storage

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content365/content365/internal/config"
)

func TestLocalStorageRoundtrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "abc123def456.pdf", bytes.NewReader([]byte("%PDF test"))))

	f, err := store.Open(ctx, "abc123def456.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "%PDF test", string(data))

	require.NoError(t, store.Delete(ctx, "abc123def456.pdf"))
	_, err = store.Open(ctx, "abc123def456.pdf")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageOpenMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "nothere12345.pdf")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for _, name := range []string{"../escape.pdf", "a/b.pdf", ".", ".."} {
		assert.Error(t, store.Save(ctx, name, bytes.NewReader(nil)), name)
		_, err := store.Open(ctx, name)
		assert.Error(t, err, name)
	}
}

func TestNewDefaultsToLocal(t *testing.T) {
	s, err := New(&config.Config{OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}
