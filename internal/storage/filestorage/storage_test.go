package storage_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"pg_wallpaper/internal/storage"
	filestorage "pg_wallpaper/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStorage(t *testing.T, maxSize int64) *filestorage.LocalFileStorage {
	t.Helper()

	fs, err := filestorage.NewLocalFileStorage(t.TempDir(), "http://test.local/uploads/", maxSize)
	require.NoError(t, err)

	return fs
}

func createTestFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	// Парсим multipart запрос
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	file.Close()

	return header
}

func TestLocalFileStorage_Save(t *testing.T) {
	fs := setupFileStorage(t, 1024)
	ctx := context.Background()

	t.Run("successful save", func(t *testing.T) {
		testFile := createTestFile(t, "me.png", "png content")

		size, err := fs.Save(ctx, testFile, "avatars/user-1.png")
		require.NoError(t, err)
		assert.Equal(t, int64(11), size)

		data, err := os.ReadFile(fs.GetFullPath("avatars/user-1.png"))
		require.NoError(t, err)
		assert.Equal(t, "png content", string(data))
	})

	t.Run("too large", func(t *testing.T) {
		testFile := createTestFile(t, "big.png", string(make([]byte, 2048)))

		_, err := fs.Save(ctx, testFile, "avatars/big.png")
		assert.ErrorIs(t, err, storage.ErrFileTooLarge)
	})

	t.Run("not an image", func(t *testing.T) {
		testFile := createTestFile(t, "notes.txt", "text")

		_, err := fs.Save(ctx, testFile, "avatars/notes.txt")
		assert.ErrorIs(t, err, storage.ErrInvalidFileType)
	})

	t.Run("save with context cancellation", func(t *testing.T) {
		testFile := createTestFile(t, "me.png", "png content")
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := fs.Save(ctx, testFile, "avatars/cancelled.png")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("key cannot escape base dir", func(t *testing.T) {
		full := fs.GetFullPath("../../etc/passwd.png")
		assert.Equal(t, filepath.Join(fs.GetBaseDir(), "etc", "passwd.png"), full)
	})
}

func TestLocalFileStorage_Delete(t *testing.T) {
	fs := setupFileStorage(t, 0)
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		_, err := fs.Save(ctx, createTestFile(t, "a.jpg", "content"), "a.jpg")
		require.NoError(t, err)

		require.NoError(t, fs.Delete(ctx, "a.jpg"))

		_, err = os.Stat(fs.GetFullPath("a.jpg"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete non-existent file", func(t *testing.T) {
		err := fs.Delete(ctx, "nonexistent.jpg")
		assert.ErrorIs(t, err, storage.ErrFileNotFound)
	})
}

func TestLocalFileStorage_PublicURL(t *testing.T) {
	fs := setupFileStorage(t, 0)
	assert.Equal(t, "http://test.local/uploads/avatars/x.png", fs.PublicURL("avatars/x.png"))
}

func TestConcurrentSaves(t *testing.T) {
	fs := setupFileStorage(t, 0)
	ctx := context.Background()
	testFile := createTestFile(t, "concurrent.webp", "data")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fs.Save(ctx, testFile, "concurrent/one.webp")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
