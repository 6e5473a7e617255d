package gallery_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"pg_wallpaper/internal/domain/models"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListWallpapers(ctx context.Context, q models.WallpaperQuery) ([]models.Wallpaper, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.Wallpaper), args.Error(1)
}

func (m *MockGateway) TopWallpapers(ctx context.Context, limit int) ([]models.Wallpaper, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Wallpaper), args.Error(1)
}

func (m *MockGateway) AddFavorite(ctx context.Context, wallpaperID int64) error {
	return m.Called(ctx, wallpaperID).Error(0)
}

func (m *MockGateway) RemoveFavorite(ctx context.Context, wallpaperID int64) error {
	return m.Called(ctx, wallpaperID).Error(0)
}

func (m *MockGateway) ListFavoriteIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockGateway) ListComments(ctx context.Context, wallpaperID int64) ([]models.Comment, error) {
	args := m.Called(ctx, wallpaperID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockGateway) PostComment(ctx context.Context, wallpaperID int64, content string) (models.Comment, error) {
	args := m.Called(ctx, wallpaperID, content)
	return args.Get(0).(models.Comment), args.Error(1)
}

func (m *MockGateway) IncrementDownload(ctx context.Context, wallpaperID int64) error {
	return m.Called(ctx, wallpaperID).Error(0)
}

func (m *MockGateway) FetchImage(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockGateway) SignIn(ctx context.Context, email, password string) (models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

func (m *MockGateway) SignUp(ctx context.Context, email, password, fullName string) (models.TokenPair, error) {
	args := m.Called(ctx, email, password, fullName)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

func (m *MockGateway) SignOut(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockGateway) CurrentUser(ctx context.Context) (models.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Account), args.Error(1)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

type recordingNavigator struct {
	logins atomic.Int32
}

func (n *recordingNavigator) ToLogin() { n.logins.Add(1) }

type fixedAuth bool

func (a fixedAuth) Authenticated() bool { return bool(a) }

type memorySaver struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (s *memorySaver) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[name] = data
	return nil
}

func (s *memorySaver) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// page builds n wallpapers with ids starting at first.
func page(first int64, n int) []models.Wallpaper {
	out := make([]models.Wallpaper, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("wallpaper-%d", first+int64(i))
		out = append(out, models.Wallpaper{
			ID:        first + int64(i),
			Name:      &name,
			ImageURL:  fmt.Sprintf("http://img/%d.jpg", first+int64(i)),
			CreatedAt: time.Unix(1700000000-int64(i), 0),
		})
	}
	return out
}
