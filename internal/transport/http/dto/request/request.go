package request

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"max=100"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ListWallpapersRequest параметры ленты обоев
type ListWallpapersRequest struct {
	Search   string `query:"search" validate:"max=100"`
	Category string `query:"category" validate:"max=50"`
	Sort     string `query:"sort" validate:"omitempty,oneof=recent popular"`
	Page     int    `query:"page" validate:"min=0"`
}

type TopRequest struct {
	Limit int `query:"limit" validate:"min=0,max=50"`
}

type WallpaperIDParam struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

type FavoriteParam struct {
	WallpaperID int64 `param:"wallpaper_id" validate:"required,min=1"`
}

type CommentRequest struct {
	ID      int64  `param:"id" json:"-" validate:"required,min=1"`
	Content string `json:"content"`
}

type IncrementDownloadRequest struct {
	WallpaperID int64 `json:"wallpaper_id" validate:"required,min=1"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"max=100"`
}
