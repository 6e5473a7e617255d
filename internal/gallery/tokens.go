package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"pg_wallpaper/internal/domain/models"
)

// TokenStore keeps the session tokens between runs. Load returns ErrNoToken
// when nothing is stored.
type TokenStore interface {
	Load() (models.TokenPair, error)
	Save(pair models.TokenPair) error
	Clear() error
}

type MemoryTokenStore struct {
	mu   sync.Mutex
	pair *models.TokenPair
}

func (s *MemoryTokenStore) Load() (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pair == nil {
		return models.TokenPair{}, ErrNoToken
	}
	return *s.pair, nil
}

func (s *MemoryTokenStore) Save(pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = &pair
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = nil
	return nil
}

// FileTokenStore keeps the token pair as JSON in a file readable only by
// the owner.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (models.TokenPair, error) {
	const op = "gallery.FileTokenStore.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.TokenPair{}, ErrNoToken
		}
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	if pair.AccessToken == "" {
		return models.TokenPair{}, ErrNoToken
	}

	return pair, nil
}

func (s *FileTokenStore) Save(pair models.TokenPair) error {
	const op = "gallery.FileTokenStore.Save"

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *FileTokenStore) Clear() error {
	const op = "gallery.FileTokenStore.Clear"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DirSaver writes downloads into Dir.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(name string, data []byte) error {
	const op = "gallery.DirSaver.Save"

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
