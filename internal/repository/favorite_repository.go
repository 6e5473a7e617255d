package repository

import (
	"context"
	"fmt"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type FavoriteRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewFavoriteRepo(db *pgxpool.Pool) *FavoriteRepo {
	return &FavoriteRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// AddFavorite is idempotent: a second insert for the same pair is a no-op.
func (r *FavoriteRepo) AddFavorite(ctx context.Context, userID uuid.UUID, wallpaperID int64) error {
	const op = "repository.FavoriteRepo.AddFavorite"

	query, args, err := r.sb.Insert("favorites").
		Columns("user_id", "wallpaper_id").
		Values(userID, wallpaperID).
		Suffix("ON CONFLICT (user_id, wallpaper_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrWallpaperNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *FavoriteRepo) RemoveFavorite(ctx context.Context, userID uuid.UUID, wallpaperID int64) error {
	const op = "repository.FavoriteRepo.RemoveFavorite"

	query, args, err := r.sb.Delete("favorites").
		Where(squirrel.Eq{"user_id": userID, "wallpaper_id": wallpaperID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// FavoriteIDs возвращает идентификаторы избранных обоев, новые первыми
func (r *FavoriteRepo) FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	const op = "repository.FavoriteRepo.FavoriteIDs"

	query, args, err := r.sb.Select("wallpaper_id").
		From("favorites").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ids, nil
}

func (r *FavoriteRepo) FavoriteWallpapers(ctx context.Context, userID uuid.UUID) ([]models.Wallpaper, error) {
	const op = "repository.FavoriteRepo.FavoriteWallpapers"

	query, args, err := r.sb.Select(
		"w.id", "w.name", "w.image_url", "w.thumb_url", "w.tags", "w.download_count", "w.created_at",
	).
		From("favorites f").
		Join("wallpapers w ON w.id = f.wallpaper_id").
		Where(squirrel.Eq{"f.user_id": userID}).
		OrderBy("f.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	wallpapers, err := scanWallpapers(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return wallpapers, nil
}
