package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpapp "pg_wallpaper/internal/app/http"
	"pg_wallpaper/internal/config"
	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/jwt"
	"pg_wallpaper/internal/services/auth"
	comments "pg_wallpaper/internal/services/comment_service"
	wallpapers "pg_wallpaper/internal/services/wallpaper_service"
	httprouters "pg_wallpaper/internal/transport/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) SignUp(ctx context.Context, email, password, fullName string) (models.TokenPair, error) {
	args := m.Called(ctx, email, password, fullName)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (models.Account, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *MockAuthService) ParseAccessToken(token string) (jwt.Claims, error) {
	args := m.Called(token)
	return args.Get(0).(jwt.Claims), args.Error(1)
}

type MockWallpaperService struct{ mock.Mock }

func (m *MockWallpaperService) List(ctx context.Context, q models.WallpaperQuery) ([]models.Wallpaper, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.Wallpaper), args.Error(1)
}

func (m *MockWallpaperService) Top(ctx context.Context, limit int) ([]models.Wallpaper, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Wallpaper), args.Error(1)
}

func (m *MockWallpaperService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWallpaperService) Get(ctx context.Context, id int64) (models.Wallpaper, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Wallpaper), args.Error(1)
}

func (m *MockWallpaperService) IncrementDownload(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockFavoriteService struct{ mock.Mock }

func (m *MockFavoriteService) Add(ctx context.Context, userID uuid.UUID, wallpaperID int64) error {
	return m.Called(ctx, userID, wallpaperID).Error(0)
}

func (m *MockFavoriteService) Remove(ctx context.Context, userID uuid.UUID, wallpaperID int64) error {
	return m.Called(ctx, userID, wallpaperID).Error(0)
}

func (m *MockFavoriteService) IDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockFavoriteService) Wallpapers(ctx context.Context, userID uuid.UUID) ([]models.Wallpaper, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Wallpaper), args.Error(1)
}

type MockCommentService struct{ mock.Mock }

func (m *MockCommentService) List(ctx context.Context, wallpaperID int64) ([]models.Comment, error) {
	args := m.Called(ctx, wallpaperID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentService) Post(ctx context.Context, userID uuid.UUID, wallpaperID int64, content string) (models.Comment, error) {
	args := m.Called(ctx, userID, wallpaperID, content)
	return args.Get(0).(models.Comment), args.Error(1)
}

type MockProfileService struct{ mock.Mock }

func (m *MockProfileService) Get(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateFullName(ctx context.Context, userID uuid.UUID, fullName string) (models.Profile, error) {
	args := m.Called(ctx, userID, fullName)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (models.Profile, error) {
	args := m.Called(ctx, userID, file)
	return args.Get(0).(models.Profile), args.Error(1)
}

const testToken = "valid-access-token"

var testUserID = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details string          `json:"details"`
}

type HTTPTestSuite struct {
	suite.Suite
	server     *httpapp.Server
	auth       *MockAuthService
	wallpapers *MockWallpaperService
	favorites  *MockFavoriteService
	comments   *MockCommentService
	profiles   *MockProfileService
	healthErr  error
}

func TestHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}

func (s *HTTPTestSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.auth = new(MockAuthService)
	s.wallpapers = new(MockWallpaperService)
	s.favorites = new(MockFavoriteService)
	s.comments = new(MockCommentService)
	s.profiles = new(MockProfileService)
	s.healthErr = nil

	s.auth.On("ParseAccessToken", testToken).Return(jwt.Claims{UserID: testUserID, Email: "test@example.com"}, nil).Maybe()
	s.auth.On("ParseAccessToken", mock.Anything).Return(jwt.Claims{}, auth.ErrInvalidToken).Maybe()

	routers := httprouters.NewRouter(log, s.auth, s.wallpapers, s.favorites, s.comments, s.profiles,
		map[string]httprouters.HealthCheck{
			"postgres": func(context.Context) error { return s.healthErr },
		},
	)

	s.server = httpapp.New(log, config.HTTPConfig{AllowOrigins: []string{"*"}}, "test-session-secret", "", routers)
	s.server.BuildRouters()
}

func (s *HTTPTestSuite) do(method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	return rec
}

func bearer() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testToken}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func (s *HTTPTestSuite) TestSignIn_SetsSessionUsableForMe() {
	pair := models.TokenPair{UserID: testUserID, AccessToken: "a", RefreshToken: "r"}
	s.auth.On("SignIn", mock.Anything, "test@example.com", "password123").Return(pair, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/auth/signin",
		strings.NewReader(`{"email":"test@example.com","password":"password123"}`), nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	env := decode(s.T(), rec)
	s.Equal("success", env.Status)
	s.Contains(string(env.Data), `"access_token":"a"`)

	cookies := rec.Result().Cookies()
	s.Require().NotEmpty(cookies)

	s.auth.On("Me", mock.Anything, testUserID).
		Return(models.Account{User: models.User{ID: testUserID, Email: "test@example.com"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	meRec := httptest.NewRecorder()
	s.server.ServeHTTP(meRec, req)

	s.Equal(http.StatusOK, meRec.Code)
	s.Contains(meRec.Body.String(), "test@example.com")
}

func (s *HTTPTestSuite) TestSignIn_InvalidCredentials() {
	s.auth.On("SignIn", mock.Anything, "test@example.com", "bad").
		Return(models.TokenPair{}, auth.ErrInvalidCredentials).Once()

	rec := s.do(http.MethodPost, "/api/v1/auth/signin",
		strings.NewReader(`{"email":"test@example.com","password":"bad"}`), nil)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("authentication_failed", decode(s.T(), rec).Error)
}

func (s *HTTPTestSuite) TestSignUp() {
	s.Run("validation", func() {
		rec := s.do(http.MethodPost, "/api/v1/auth/signup",
			strings.NewReader(`{"email":"not-an-email","password":"123"}`), nil)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("validation_failed", decode(s.T(), rec).Error)
	})

	s.Run("conflict", func() {
		s.auth.On("SignUp", mock.Anything, "dup@example.com", "password123", "").
			Return(models.TokenPair{}, auth.ErrUserExist).Once()

		rec := s.do(http.MethodPost, "/api/v1/auth/signup",
			strings.NewReader(`{"email":"dup@example.com","password":"password123"}`), nil)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("created", func() {
		s.auth.On("SignUp", mock.Anything, "new@example.com", "password123", "Jane").
			Return(models.TokenPair{UserID: testUserID, AccessToken: "a", RefreshToken: "r"}, nil).Once()

		rec := s.do(http.MethodPost, "/api/v1/auth/signup",
			strings.NewReader(`{"email":"new@example.com","password":"password123","full_name":"Jane"}`), nil)
		s.Equal(http.StatusCreated, rec.Code)
	})
}

func (s *HTTPTestSuite) TestProtectedRoutesRequireAuth() {
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/favorites"},
		{http.MethodPut, "/api/v1/favorites/42"},
		{http.MethodPost, "/api/v1/wallpapers/1/comments"},
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPost, "/api/v1/auth/signout"},
	} {
		rec := s.do(tc.method, tc.path, nil, nil)
		s.Equal(http.StatusUnauthorized, rec.Code, tc.path)
		s.Equal("unauthorized", decode(s.T(), rec).Error, tc.path)
	}

	rec := s.do(http.MethodGet, "/api/v1/favorites", nil, map[string]string{"Authorization": "Bearer nope"})
	s.Equal(http.StatusUnauthorized, rec.Code)

	s.favorites.AssertNotCalled(s.T(), "Add", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HTTPTestSuite) TestListWallpapers() {
	q := models.WallpaperQuery{Category: "Nature", Sort: models.SortPopular, Page: 1}
	s.wallpapers.On("List", mock.Anything, q).Return([]models.Wallpaper{{ID: 1}, {ID: 2}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/wallpapers?category=Nature&sort=popular&page=1", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var list []models.Wallpaper
	s.Require().NoError(json.Unmarshal(decode(s.T(), rec).Data, &list))
	s.Len(list, 2)
}

func (s *HTTPTestSuite) TestListWallpapers_InvalidSort() {
	rec := s.do(http.MethodGet, "/api/v1/wallpapers?sort=oldest", nil, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.wallpapers.AssertNotCalled(s.T(), "List", mock.Anything, mock.Anything)
}

func (s *HTTPTestSuite) TestTopAndCategories() {
	s.wallpapers.On("Top", mock.Anything, 5).Return([]models.Wallpaper{{ID: 9}}, nil).Once()
	s.wallpapers.On("Categories", mock.Anything).Return([]string{"Nature"}, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/wallpapers/top?limit=5", nil, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/categories", nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`["Nature"]`, string(decode(s.T(), rec).Data))
}

func (s *HTTPTestSuite) TestGetWallpaper_NotFound() {
	s.wallpapers.On("Get", mock.Anything, int64(404)).
		Return(models.Wallpaper{}, wallpapers.ErrWallpaperNotFound).Once()

	rec := s.do(http.MethodGet, "/api/v1/wallpapers/404", nil, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/wallpapers/abc", nil, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HTTPTestSuite) TestFavorites() {
	s.favorites.On("Add", mock.Anything, testUserID, int64(42)).Return(nil).Once()
	s.favorites.On("Remove", mock.Anything, testUserID, int64(42)).Return(nil).Once()
	s.favorites.On("IDs", mock.Anything, testUserID).Return([]int64{42, 7}, nil).Once()

	s.Equal(http.StatusNoContent, s.do(http.MethodPut, "/api/v1/favorites/42", nil, bearer()).Code)
	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/favorites/42", nil, bearer()).Code)

	rec := s.do(http.MethodGet, "/api/v1/favorites", nil, bearer())
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ids":[42,7]}`, string(decode(s.T(), rec).Data))

	s.favorites.AssertExpectations(s.T())
}

func (s *HTTPTestSuite) TestPostComment() {
	s.Run("empty", func() {
		s.comments.On("Post", mock.Anything, testUserID, int64(1), "   ").
			Return(models.Comment{}, comments.ErrEmptyComment).Once()

		rec := s.do(http.MethodPost, "/api/v1/wallpapers/1/comments", strings.NewReader(`{"content":"   "}`), bearer())
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("empty_comment", decode(s.T(), rec).Error)
	})

	s.Run("created", func() {
		s.comments.On("Post", mock.Anything, testUserID, int64(1), "nice").
			Return(models.Comment{ID: 5, WallpaperID: 1, UserID: testUserID, Content: "nice"}, nil).Once()

		rec := s.do(http.MethodPost, "/api/v1/wallpapers/1/comments", strings.NewReader(`{"content":"nice"}`), bearer())
		s.Equal(http.StatusCreated, rec.Code)
	})
}

func (s *HTTPTestSuite) TestIncrementDownload() {
	s.wallpapers.On("IncrementDownload", mock.Anything, int64(42)).Return(nil).Once()
	s.wallpapers.On("IncrementDownload", mock.Anything, int64(43)).Return(wallpapers.ErrWallpaperNotFound).Once()

	rec := s.do(http.MethodPost, "/api/v1/functions/increment-download", strings.NewReader(`{"wallpaper_id":42}`), nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/functions/increment-download", strings.NewReader(`{"wallpaper_id":43}`), nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/functions/increment-download", strings.NewReader(`{}`), nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HTTPTestSuite) TestUploadAvatar() {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "me.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte("png"))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	url := "http://localhost/uploads/avatars/x.png"
	s.profiles.On("UploadAvatar", mock.Anything, testUserID, mock.AnythingOfType("*multipart.FileHeader")).
		Return(models.Profile{UserID: testUserID, AvatarURL: &url}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/avatar", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), url)
}

func (s *HTTPTestSuite) TestHealth() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", nil, nil).Code)

	s.healthErr = errors.New("connection refused")
	rec := s.do(http.MethodGet, "/health", nil, nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("service_unavailable", decode(s.T(), rec).Error)
}

func (s *HTTPTestSuite) TestMetricsEndpoint() {
	s.do(http.MethodGet, "/health", nil, nil)

	rec := s.do(http.MethodGet, "/metrics", nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "http_requests_total")
}
