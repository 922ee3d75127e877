package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStoreFetch(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "dryer-data", "Meta", "a.model")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("artifact bytes"), 0644))

	store := NewFSStore(root)
	body, size, err := store.Fetch(context.Background(), "dryer-data", "Meta/a.model")
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, int64(14), size)

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, []byte("artifact bytes"), data)
}

func TestFSStoreFetchNotFound(t *testing.T) {
	store := NewFSStore(t.TempDir())

	_, _, err := store.Fetch(context.Background(), "dryer-data", "missing.model")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStoreFetchCancelledContext(t *testing.T) {
	store := NewFSStore(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Fetch(ctx, "dryer-data", "a.model")
	assert.ErrorIs(t, err, context.Canceled)
}
