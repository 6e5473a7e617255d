package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pg_wallpaper/internal/storage"
)

// FileStorage интерфейс для работы с файловым хранилищем
type FileStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader, key string) (int64, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	GetFullPath(key string) string
	GetBaseDir() string
}

var allowedImageExt = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// LocalFileStorage реализация для локальной файловой системы
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:8080/uploads")
	maxSize int64
}

func NewLocalFileStorage(baseDir, baseURL string, maxSize int64) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

// Save stores an image under key, which is a slash separated object name.
func (s *LocalFileStorage) Save(ctx context.Context, file *multipart.FileHeader, key string) (int64, error) {
	const op = "storage.filestorage.Save"

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if s.maxSize > 0 && file.Size > s.maxSize {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	if _, ok := allowedImageExt[strings.ToLower(path.Ext(key))]; !ok {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	filePath := s.GetFullPath(key)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return 0, fmt.Errorf("%s: failed to create directories: %w", op, err)
	}

	src, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to open source file: %w", op, err)
	}
	defer src.Close()

	// Создаем целевой файл
	dst, err := os.Create(filePath)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to create destination file: %w", op, err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return 0, fmt.Errorf("%s: failed to copy file: %w", op, copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return 0, ctx.Err()
	}

	return size, nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.GetFullPath(key)); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrFileNotFound
		}
		return err
	}
	return nil
}

// PublicURL возвращает адрес, по которому файл отдается клиентам
func (s *LocalFileStorage) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(path.Clean("/"+key)))
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}
