package repository_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/minaret/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	defer filet.CleanUp(t)
	ctx := t.Context()
	logger := slog.Default()

	t.Run("missing file reads as empty", func(t *testing.T) {
		dir := filet.TmpDir(t, "")
		store, err := repository.NewFileStore(filepath.Join(dir, "state.json"), logger)
		require.NoError(t, err)

		_, err = store.Get(ctx, "@salah_alarms")

		require.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, store.Ping(ctx))
	})

	t.Run("values survive a new store instance", func(t *testing.T) {
		path := filepath.Join(filet.TmpDir(t, ""), "nested", "state.json")
		store, err := repository.NewFileStore(path, logger)
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, "a", "1"))
		require.NoError(t, store.Set(ctx, "b", "2"))
		require.NoError(t, store.Set(ctx, "a", "3"))

		reopened, err := repository.NewFileStore(path, logger)
		require.NoError(t, err)
		value, err := reopened.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "3", value)
		value, err = reopened.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "2", value)

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary files must not be left behind")
	})

	t.Run("corrupt file reads as empty and is overwritten", func(t *testing.T) {
		path := filepath.Join(filet.TmpDir(t, ""), "state.json")
		filet.File(t, path, "{not json")
		store, err := repository.NewFileStore(path, logger)
		require.NoError(t, err)

		_, err = store.Get(ctx, "a")
		require.ErrorIs(t, err, repository.ErrNotFound)

		require.NoError(t, store.Set(ctx, "a", "1"))
		value, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "1", value)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemoryStore()

	_, err := store.Get(ctx, "a")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Set(ctx, "a", "1"))
	value, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
	assert.Equal(t, 1, store.Writes())
	assert.NoError(t, store.Ping(ctx))
}
