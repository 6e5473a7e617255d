// Package gallery holds the client-side state of the wallpaper gallery:
// the paginated listing, the favorite set, the open preview, the auth
// session and the top-downloads carousel. Controllers reach persistent data
// only through a Gateway.
package gallery

import (
	"context"
	"errors"
	"fmt"

	"pg_wallpaper/internal/domain/models"
)

var (
	ErrUnauthenticated = errors.New("sign in required")
	ErrValidation      = errors.New("validation failed")
	ErrEmptyComment    = fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	ErrGateway         = errors.New("gateway request failed")
	ErrNoToken         = errors.New("no stored token")
)

// Notices shown to the user.
const (
	NoticeFetchFailed       = "Could not fetch wallpapers."
	NoticeFavoriteAdded     = "Added to favorites."
	NoticeFavoriteRemoved   = "Removed from favorites."
	NoticeFavoriteFailed    = "Could not update favorites."
	NoticeCommentsFailed    = "Could not fetch comments."
	NoticeCommentLogin      = "You must be logged in to comment."
	NoticeCommentEmpty      = "Comment cannot be empty."
	NoticeCommentFailed     = "Failed to post comment."
	NoticeCommentPosted     = "Comment posted!"
	NoticeDownloadFailed    = "Could not download wallpaper."
	NoticeSignInFailed      = "Invalid email or password."
	NoticeSignInUnavailable = "Could not sign in."
	NoticeSignUpFailed      = "Could not create account."
	NoticeSignedOut         = "Signed out."
)

// Gateway is everything the controllers need from the backend.
type Gateway interface {
	ListWallpapers(ctx context.Context, q models.WallpaperQuery) ([]models.Wallpaper, error)
	TopWallpapers(ctx context.Context, limit int) ([]models.Wallpaper, error)
	AddFavorite(ctx context.Context, wallpaperID int64) error
	RemoveFavorite(ctx context.Context, wallpaperID int64) error
	ListFavoriteIDs(ctx context.Context) ([]int64, error)
	ListComments(ctx context.Context, wallpaperID int64) ([]models.Comment, error)
	PostComment(ctx context.Context, wallpaperID int64, content string) (models.Comment, error)
	IncrementDownload(ctx context.Context, wallpaperID int64) error
	FetchImage(ctx context.Context, url string) ([]byte, error)
	SignIn(ctx context.Context, email, password string) (models.TokenPair, error)
	SignUp(ctx context.Context, email, password, fullName string) (models.TokenPair, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.Account, error)
}

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Navigator interface {
	ToLogin()
}

// Saver persists downloaded image bytes under a file name.
type Saver interface {
	Save(name string, data []byte) error
}

// Authenticator reports whether a user is signed in.
type Authenticator interface {
	Authenticated() bool
}
