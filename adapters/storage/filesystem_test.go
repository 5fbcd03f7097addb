package storage

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"datalens/internal/config"
	"datalens/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStoreRoundTripAndOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewFilesystemStore(t.TempDir())

	require.NoError(t, store.PutObject(ctx, "bucket", "Pokemons.csv", strings.NewReader("a,b\n1,2\n"), -1))
	require.NoError(t, store.PutObject(ctx, "bucket", "Pokemons.csv", strings.NewReader("a\n3\n"), -1))

	rc, err := store.GetObject(ctx, "bucket", "Pokemons.csv")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a\n3\n", string(body))
}

func TestFilesystemStoreMissingObject(t *testing.T) {
	store := NewFilesystemStore(t.TempDir())

	_, err := store.GetObject(context.Background(), "bucket", "absent.csv")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ports.ErrObjectNotFound))
}

func TestFilesystemStoreKeysCannotEscapeBucket(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store := NewFilesystemStore(base)

	require.NoError(t, store.PutObject(ctx, "bucket", "../../escape.csv", strings.NewReader("x"), 1))

	rc, err := store.GetObject(ctx, "bucket", "escape.csv")
	require.NoError(t, err)
	rc.Close()

	_, err = store.GetObject(ctx, "../bucket", "escape.csv")
	assert.Error(t, err)
}

func TestOpenFilesystemBackend(t *testing.T) {
	store, closer, err := Open(context.Background(), config.StorageConfig{
		Backend: config.BackendFilesystem,
		BaseDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.IsType(t, &FilesystemStore{}, store)
	assert.NoError(t, closer.Close())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, _, err := Open(context.Background(), config.StorageConfig{Backend: "tape"})
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "text/csv", contentTypeFor("Pokemons.csv"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob"))
}
