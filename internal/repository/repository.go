package repository

import (
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repository struct {
	db        *pgxpool.Pool
	User      *UserRepo
	Profile   *ProfileRepo
	Wallpaper *WallpaperRepo
	Favorite  *FavoriteRepo
	Comment   *CommentRepo
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:        db,
		User:      NewUserRepository(db),
		Profile:   NewProfileRepository(db),
		Wallpaper: NewWallpaperRepo(db),
		Favorite:  NewFavoriteRepo(db),
		Comment:   NewCommentRepo(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
