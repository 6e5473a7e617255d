package repository

import (
	"context"
	"time"

	"pg_wallpaper/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User, fullName string) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, avatarURL *string) (models.Profile, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

type WallpaperRepository interface {
	ListWallpapers(ctx context.Context, q models.WallpaperQuery) ([]models.Wallpaper, error)
	TopDownloads(ctx context.Context, limit int) ([]models.Wallpaper, error)
	GetWallpaperByID(ctx context.Context, id int64) (models.Wallpaper, error)
	IncrementDownloadCount(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
}

type FavoriteRepository interface {
	AddFavorite(ctx context.Context, userID uuid.UUID, wallpaperID int64) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, wallpaperID int64) error
	FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
	FavoriteWallpapers(ctx context.Context, userID uuid.UUID) ([]models.Wallpaper, error)
}

type CommentRepository interface {
	CommentsByWallpaper(ctx context.Context, wallpaperID int64) ([]models.Comment, error)
	SaveComment(ctx context.Context, comment models.Comment) (models.Comment, error)
}
