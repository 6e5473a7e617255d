package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite связывает пользователя с обоями. Не более одной записи на пару.
type Favorite struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	WallpaperID int64     `json:"wallpaper_id" db:"wallpaper_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
