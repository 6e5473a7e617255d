package gallery_test

import (
	"os"
	"path/filepath"
	"testing"

	"pg_wallpaper/internal/gallery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := gallery.NewFileTokenStore(path)

	_, err := store.Load()
	require.ErrorIs(t, err, gallery.ErrNoToken)

	require.NoError(t, store.Save(sessionPair))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := gallery.NewFileTokenStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, sessionPair, loaded)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, err = store.Load()
	assert.ErrorIs(t, err, gallery.ErrNoToken)
}

func TestFileTokenStore_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := gallery.NewFileTokenStore(path).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, gallery.ErrNoToken)
}

func TestDirSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	saver := gallery.DirSaver{Dir: dir}

	require.NoError(t, saver.Save("../escape.jpg", []byte("jpeg")))

	data, err := os.ReadFile(filepath.Join(dir, "escape.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
}
