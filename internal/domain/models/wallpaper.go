package models

import "time"

type SortMode string

const (
	SortRecent  SortMode = "recent"
	SortPopular SortMode = "popular"
)

// CategoryAll is the category sentinel that disables tag filtering.
const CategoryAll = "All"

// Wallpaper представляет изображение в галерее
type Wallpaper struct {
	ID            int64     `json:"id" db:"id"`
	Name          *string   `json:"name" db:"name"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	ThumbURL      string    `json:"thumb_url" db:"thumb_url"`
	Tags          []string  `json:"tags" db:"tags"`
	DownloadCount int64     `json:"download_count" db:"download_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// FileName is the name offered to the user when the image is saved.
func (w Wallpaper) FileName() string {
	if w.Name != nil && *w.Name != "" {
		return *w.Name + ".jpg"
	}
	return "wallpaper.jpg"
}

// WallpaperQuery describes one page of the listing.
type WallpaperQuery struct {
	Search   string   `json:"search"`
	Category string   `json:"category"`
	Sort     SortMode `json:"sort"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

func (s SortMode) Valid() bool {
	return s == SortRecent || s == SortPopular
}
