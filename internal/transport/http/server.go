package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/jwt"
	"pg_wallpaper/internal/lib/logger/sl"
	"pg_wallpaper/internal/services/auth"
	comments "pg_wallpaper/internal/services/comment_service"
	favorites "pg_wallpaper/internal/services/favorite_service"
	profiles "pg_wallpaper/internal/services/profile_service"
	wallpapers "pg_wallpaper/internal/services/wallpaper_service"
	"pg_wallpaper/internal/transport/http/dto"
	"pg_wallpaper/internal/transport/http/dto/request"
	"pg_wallpaper/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (models.TokenPair, error)
	SignIn(ctx context.Context, email, password string) (models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (models.Account, error)
	ParseAccessToken(token string) (jwt.Claims, error)
}

type WallpaperService interface {
	List(ctx context.Context, q models.WallpaperQuery) ([]models.Wallpaper, error)
	Top(ctx context.Context, limit int) ([]models.Wallpaper, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int64) (models.Wallpaper, error)
	IncrementDownload(ctx context.Context, id int64) error
}

type FavoriteService interface {
	Add(ctx context.Context, userID uuid.UUID, wallpaperID int64) error
	Remove(ctx context.Context, userID uuid.UUID, wallpaperID int64) error
	IDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
	Wallpapers(ctx context.Context, userID uuid.UUID) ([]models.Wallpaper, error)
}

type CommentService interface {
	List(ctx context.Context, wallpaperID int64) ([]models.Comment, error)
	Post(ctx context.Context, userID uuid.UUID, wallpaperID int64, content string) (models.Comment, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	UpdateFullName(ctx context.Context, userID uuid.UUID, fullName string) (models.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (models.Profile, error)
}

// HealthCheck reports whether one backing service is reachable.
type HealthCheck func(ctx context.Context) error

type Routers struct {
	log              *slog.Logger
	AuthService      AuthService
	WallpaperService WallpaperService
	FavoriteService  FavoriteService
	CommentService   CommentService
	ProfileService   ProfileService
	healthChecks     map[string]HealthCheck
}

func NewRouter(
	log *slog.Logger,
	authService AuthService,
	wallpaperService WallpaperService,
	favoriteService FavoriteService,
	commentService CommentService,
	profileService ProfileService,
	healthChecks map[string]HealthCheck,
) *Routers {
	return &Routers{
		log:              log,
		AuthService:      authService,
		WallpaperService: wallpaperService,
		FavoriteService:  favoriteService,
		CommentService:   commentService,
		ProfileService:   profileService,
		healthChecks:     healthChecks,
	}
}

// SignUp godoc
// @Summary Регистрация нового пользователя
// @Description Создает аккаунт с пустым профилем и сразу выполняет вход.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.SignUpRequest true "Данные для регистрации"
// @Success 201 {object} response.Response{data=dto.AuthResponse}
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/auth/signup [post]
func (r *Routers) SignUp(c echo.Context) error {
	const op = "http.routers.SignUp"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.SignUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := r.AuthService.SignUp(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, auth.ErrUserExist) {
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}

		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if err := saveSession(c, pair.UserID); err != nil {
		log.Warn("failed to save session", sl.Err(err))
	}

	return c.JSON(http.StatusCreated, response.OK(dto.NewAuthResponse(pair)))
}

// SignIn godoc
// @Summary Аутентификация пользователя
// @Description Вход по email и паролю. Возвращает пару токенов и выставляет cookie-сессию.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.SignInRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=dto.AuthResponse}
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /api/v1/auth/signin [post]
func (r *Routers) SignIn(c echo.Context) error {
	const op = "http.routers.SignIn"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := r.AuthService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}

		log.Error("sign in failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if err := saveSession(c, pair.UserID); err != nil {
		log.Warn("failed to save session", sl.Err(err))
	}

	return c.JSON(http.StatusOK, response.OK(dto.NewAuthResponse(pair)))
}

// Refresh godoc
// @Summary Обновление токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response{data=dto.AuthResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse "Недействительный refresh token"
// @Router /api/v1/auth/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := r.AuthService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, response.Error(response.CodeUnauthorized, "invalid refresh token"))
		}

		log.Error("error refresh tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(dto.NewAuthResponse(pair)))
}

// SignOut godoc
// @Summary Выход
// @Description Отзывает все refresh-токены пользователя и очищает сессию.
// @Tags auth
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/auth/signout [post]
func (r *Routers) SignOut(c echo.Context) error {
	const op = "http.routers.SignOut"

	userID := UserID(c)

	if err := r.AuthService.SignOut(c.Request().Context(), userID); err != nil {
		r.log.Error("sign out failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if err := clearSession(c); err != nil {
		r.log.Warn("failed to clear session", slog.String("op", op), sl.Err(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=models.Account}
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/auth/me [get]
func (r *Routers) Me(c echo.Context) error {
	const op = "http.routers.Me"

	account, err := r.AuthService.Me(c.Request().Context(), UserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
		}

		r.log.Error("failed to get account", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(account))
}

// ListWallpapers godoc
// @Summary Лента обоев
// @Description Страница из 20 обоев. Поиск по имени или тегу, фильтр по категории, сортировка.
// @Tags wallpapers
// @Produce json
// @Param search query string false "Поисковая строка"
// @Param category query string false "Категория (All: без фильтра)"
// @Param sort query string false "recent или popular" Enums(recent, popular)
// @Param page query int false "Номер страницы с нуля"
// @Success 200 {object} response.Response{data=[]models.Wallpaper}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/wallpapers [get]
func (r *Routers) ListWallpapers(c echo.Context) error {
	const op = "http.routers.ListWallpapers"

	var req request.ListWallpapersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	list, err := r.WallpaperService.List(c.Request().Context(), models.WallpaperQuery{
		Search:   req.Search,
		Category: req.Category,
		Sort:     models.SortMode(req.Sort),
		Page:     req.Page,
	})
	if err != nil {
		if errors.Is(err, wallpapers.ErrInvalidQuery) {
			return c.JSON(http.StatusBadRequest, response.Error(response.CodeValidationFailed, err.Error()))
		}

		r.log.Error("failed to list wallpapers", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(list))
}

// TopWallpapers godoc
// @Summary Самые скачиваемые обои
// @Tags wallpapers
// @Produce json
// @Param limit query int false "Количество (по умолчанию 5)"
// @Success 200 {object} response.Response{data=[]models.Wallpaper}
// @Router /api/v1/wallpapers/top [get]
func (r *Routers) TopWallpapers(c echo.Context) error {
	const op = "http.routers.TopWallpapers"

	var req request.TopRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	top, err := r.WallpaperService.Top(c.Request().Context(), req.Limit)
	if err != nil {
		r.log.Error("failed to get top wallpapers", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(top))
}

// Categories godoc
// @Summary Список категорий
// @Tags wallpapers
// @Produce json
// @Success 200 {object} response.Response{data=[]string}
// @Router /api/v1/categories [get]
func (r *Routers) Categories(c echo.Context) error {
	const op = "http.routers.Categories"

	categories, err := r.WallpaperService.Categories(c.Request().Context())
	if err != nil {
		r.log.Error("failed to get categories", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(categories))
}

// GetWallpaper godoc
// @Summary Обои по ID
// @Tags wallpapers
// @Produce json
// @Param id path int true "ID обоев"
// @Success 200 {object} response.Response{data=models.Wallpaper}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/wallpapers/{id} [get]
func (r *Routers) GetWallpaper(c echo.Context) error {
	const op = "http.routers.GetWallpaper"

	var req request.WallpaperIDParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	w, err := r.WallpaperService.Get(c.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, wallpapers.ErrWallpaperNotFound) {
			return c.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "wallpaper not found"))
		}

		r.log.Error("failed to get wallpaper", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(w))
}

// ListComments godoc
// @Summary Комментарии к обоям
// @Description Новые первыми, вместе с профилем автора.
// @Tags comments
// @Produce json
// @Param id path int true "ID обоев"
// @Success 200 {object} response.Response{data=[]models.Comment}
// @Router /api/v1/wallpapers/{id}/comments [get]
func (r *Routers) ListComments(c echo.Context) error {
	const op = "http.routers.ListComments"

	var req request.WallpaperIDParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	list, err := r.CommentService.List(c.Request().Context(), req.ID)
	if err != nil {
		r.log.Error("failed to list comments", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(list))
}

// PostComment godoc
// @Summary Оставить комментарий
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "ID обоев"
// @Param request body request.CommentRequest true "Текст комментария"
// @Success 201 {object} response.Response{data=models.Comment}
// @Failure 400 {object} response.ErrorResponse "Пустой комментарий"
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/wallpapers/{id}/comments [post]
func (r *Routers) PostComment(c echo.Context) error {
	const op = "http.routers.PostComment"

	var req request.CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := r.CommentService.Post(c.Request().Context(), UserID(c), req.ID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, comments.ErrEmptyComment):
			return c.JSON(http.StatusBadRequest, response.Error(response.CodeEmptyComment, "Comment cannot be empty."))
		case errors.Is(err, comments.ErrCommentTooLong):
			return c.JSON(http.StatusBadRequest, response.Error(response.CodeValidationFailed, err.Error()))
		case errors.Is(err, comments.ErrWallpaperNotFound):
			return c.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "wallpaper not found"))
		}

		r.log.Error("failed to post comment", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.OK(comment))
}

// FavoriteIDs godoc
// @Summary ID избранных обоев
// @Tags favorites
// @Produce json
// @Success 200 {object} response.Response{data=dto.FavoriteIDsResponse}
// @Security ApiKeyAuth
// @Router /api/v1/favorites [get]
func (r *Routers) FavoriteIDs(c echo.Context) error {
	const op = "http.routers.FavoriteIDs"

	ids, err := r.FavoriteService.IDs(c.Request().Context(), UserID(c))
	if err != nil {
		r.log.Error("failed to list favorites", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(dto.FavoriteIDsResponse{IDs: ids}))
}

// FavoriteWallpapers godoc
// @Summary Избранные обои
// @Description Последние добавленные первыми.
// @Tags favorites
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Wallpaper}
// @Security ApiKeyAuth
// @Router /api/v1/favorites/wallpapers [get]
func (r *Routers) FavoriteWallpapers(c echo.Context) error {
	const op = "http.routers.FavoriteWallpapers"

	list, err := r.FavoriteService.Wallpapers(c.Request().Context(), UserID(c))
	if err != nil {
		r.log.Error("failed to list favorite wallpapers", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(list))
}

// AddFavorite godoc
// @Summary Добавить в избранное
// @Description Идемпотентно.
// @Tags favorites
// @Param wallpaper_id path int true "ID обоев"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/favorites/{wallpaper_id} [put]
func (r *Routers) AddFavorite(c echo.Context) error {
	const op = "http.routers.AddFavorite"

	var req request.FavoriteParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := r.FavoriteService.Add(c.Request().Context(), UserID(c), req.WallpaperID); err != nil {
		if errors.Is(err, favorites.ErrWallpaperNotFound) {
			return c.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "wallpaper not found"))
		}

		r.log.Error("failed to add favorite", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.NoContent(http.StatusNoContent)
}

// RemoveFavorite godoc
// @Summary Убрать из избранного
// @Tags favorites
// @Param wallpaper_id path int true "ID обоев"
// @Success 204
// @Security ApiKeyAuth
// @Router /api/v1/favorites/{wallpaper_id} [delete]
func (r *Routers) RemoveFavorite(c echo.Context) error {
	const op = "http.routers.RemoveFavorite"

	var req request.FavoriteParam
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := r.FavoriteService.Remove(c.Request().Context(), UserID(c), req.WallpaperID); err != nil {
		r.log.Error("failed to remove favorite", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.NoContent(http.StatusNoContent)
}

// IncrementDownload godoc
// @Summary Учесть скачивание
// @Description Единственный способ изменить download_count.
// @Tags functions
// @Accept json
// @Param request body request.IncrementDownloadRequest true "ID обоев"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/functions/increment-download [post]
func (r *Routers) IncrementDownload(c echo.Context) error {
	const op = "http.routers.IncrementDownload"

	var req request.IncrementDownloadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := r.WallpaperService.IncrementDownload(c.Request().Context(), req.WallpaperID); err != nil {
		if errors.Is(err, wallpapers.ErrWallpaperNotFound) {
			return c.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "wallpaper not found"))
		}

		r.log.Error("failed to increment download", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetProfile godoc
// @Summary Профиль текущего пользователя
// @Tags profile
// @Produce json
// @Success 200 {object} response.Response{data=models.Profile}
// @Security ApiKeyAuth
// @Router /api/v1/profile [get]
func (r *Routers) GetProfile(c echo.Context) error {
	const op = "http.routers.GetProfile"

	p, err := r.ProfileService.Get(c.Request().Context(), UserID(c))
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "profile not found"))
		}

		r.log.Error("failed to get profile", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(p))
}

// UpdateProfile godoc
// @Summary Изменить имя
// @Tags profile
// @Accept json
// @Produce json
// @Param request body request.UpdateProfileRequest true "Новое имя"
// @Success 200 {object} response.Response{data=models.Profile}
// @Security ApiKeyAuth
// @Router /api/v1/profile [patch]
func (r *Routers) UpdateProfile(c echo.Context) error {
	const op = "http.routers.UpdateProfile"

	var req request.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := r.ProfileService.UpdateFullName(c.Request().Context(), UserID(c), req.FullName)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "profile not found"))
		}

		r.log.Error("failed to update profile", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(p))
}

// UploadAvatar godoc
// @Summary Загрузка аватара
// @Description Сохраняет изображение как avatars/{userId}-{unix}.{ext} и возвращает профиль с публичным URL.
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Изображение"
// @Success 200 {object} response.Response{data=models.Profile}
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse "Превышен максимальный размер файла"
// @Failure 415 {object} response.ErrorResponse "Неподдерживаемый тип файла"
// @Security ApiKeyAuth
// @Router /api/v1/profile/avatar [post]
func (r *Routers) UploadAvatar(c echo.Context) error {
	const op = "http.routers.UploadAvatar"

	log := r.log.With(
		slog.String("op", op),
	)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("empty file in request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Error(response.CodeInvalidRequest, "File is required"))
	}

	log.Debug("got file for upload",
		slog.String("filename", file.Filename),
		slog.Int64("size", file.Size),
	)

	p, err := r.ProfileService.UploadAvatar(c.Request().Context(), UserID(c), file)
	if err != nil {
		switch {
		case errors.Is(err, profiles.ErrAvatarTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, response.Error(response.CodeFileTooLarge, err.Error()))
		case errors.Is(err, profiles.ErrInvalidAvatar):
			return c.JSON(http.StatusUnsupportedMediaType, response.Error(response.CodeUnsupportedFile, err.Error()))
		case errors.Is(err, profiles.ErrProfileNotFound):
			return c.JSON(http.StatusNotFound, response.Error(response.CodeNotFound, "profile not found"))
		}

		log.Error("error upload avatar", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.OK(p))
}

// Health godoc
// @Summary Проверка состояния
// @Tags health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	for name, check := range r.healthChecks {
		if err := check(c.Request().Context()); err != nil {
			r.log.Warn("health check failed", slog.String("dependency", name), sl.Err(err))
			return c.JSON(http.StatusServiceUnavailable, response.Error(response.CodeServiceUnavailable, name))
		}
	}

	return c.JSON(http.StatusOK, response.Response{Status: response.StatusSuccess, Message: "ok"})
}

// bindAndValidate returns an *echo.HTTPError carrying the error envelope, so
// handlers can return it as is.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, response.Error(response.CodeInvalidRequest, "Invalid request format"))
	}

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, response.Error(response.CodeValidationFailed, err.Error()))
	}

	return nil
}
