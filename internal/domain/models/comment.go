package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID          int64          `json:"id" db:"id"`
	WallpaperID int64          `json:"wallpaper_id" db:"wallpaper_id"`
	UserID      uuid.UUID      `json:"user_id" db:"user_id"`
	Content     string         `json:"content" db:"content"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	Author      *CommentAuthor `json:"profiles"`
}

// CommentAuthor is the slice of the author's profile shown next to a comment.
type CommentAuthor struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// DisplayName falls back to "Anonymous" when the author has no name.
func (c Comment) DisplayName() string {
	if c.Author == nil || c.Author.FullName == nil || *c.Author.FullName == "" {
		return "Anonymous"
	}
	return *c.Author.FullName
}
