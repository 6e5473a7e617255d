package dto

import (
	"pg_wallpaper/internal/domain/models"

	"github.com/google/uuid"
)

// AuthResponse возвращается при входе, регистрации и обновлении токенов
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

func NewAuthResponse(pair models.TokenPair) AuthResponse {
	return AuthResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

// FavoriteIDsResponse is the set of wallpaper ids the user has favorited.
type FavoriteIDsResponse struct {
	IDs []int64 `json:"ids"`
}
