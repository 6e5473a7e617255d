package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

// DefaultPageSize is the number of wallpapers in one listing page.
const DefaultPageSize = 20

var wallpaperColumns = []string{
	"id", "name", "image_url", "thumb_url", "tags", "download_count", "created_at",
}

type WallpaperRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewWallpaperRepo(db *pgxpool.Pool) *WallpaperRepo {
	return &WallpaperRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListWallpapers возвращает одну страницу обоев с учетом фильтров
func (r *WallpaperRepo) ListWallpapers(ctx context.Context, q models.WallpaperQuery) ([]models.Wallpaper, error) {
	const op = "repository.WallpaperRepo.ListWallpapers"

	query, args, err := BuildListQuery(r.sb, q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wallpapers, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return wallpapers, nil
}

// BuildListQuery turns a listing query into SQL. Category "All" and an empty
// search term add no condition.
func BuildListQuery(sb squirrel.StatementBuilderType, q models.WallpaperQuery) squirrel.SelectBuilder {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := q.Page
	if page < 0 {
		page = 0
	}

	builder := sb.Select(wallpaperColumns...).From("wallpapers")

	if category := strings.TrimSpace(q.Category); category != "" && category != models.CategoryAll {
		builder = builder.Where("tags @> ?", pq.Array([]string{category}))
	}

	if term := strings.TrimSpace(q.Search); term != "" {
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": "%" + escapeLike(term) + "%"},
			squirrel.Expr("tags @> ?", pq.Array([]string{term})),
		})
	}

	switch q.Sort {
	case models.SortPopular:
		builder = builder.OrderBy("download_count DESC", "id DESC")
	default:
		builder = builder.OrderBy("created_at DESC", "id DESC")
	}

	return builder.
		Limit(uint64(pageSize)).
		Offset(uint64(page * pageSize))
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// TopDownloads возвращает самые скачиваемые обои
func (r *WallpaperRepo) TopDownloads(ctx context.Context, limit int) ([]models.Wallpaper, error) {
	const op = "repository.WallpaperRepo.TopDownloads"

	query, args, err := r.sb.Select(wallpaperColumns...).
		From("wallpapers").
		OrderBy("download_count DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wallpapers, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return wallpapers, nil
}

func (r *WallpaperRepo) GetWallpaperByID(ctx context.Context, id int64) (models.Wallpaper, error) {
	const op = "repository.WallpaperRepo.GetWallpaperByID"

	query, args, err := r.sb.Select(wallpaperColumns...).
		From("wallpapers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Wallpaper{}, fmt.Errorf("%s: %w", op, err)
	}

	w, err := scanWallpaper(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Wallpaper{}, fmt.Errorf("%s: %w", op, storage.ErrWallpaperNotFound)
		}
		return models.Wallpaper{}, fmt.Errorf("%s: %w", op, err)
	}

	return w, nil
}

// IncrementDownloadCount увеличивает счетчик скачиваний на единицу
func (r *WallpaperRepo) IncrementDownloadCount(ctx context.Context, id int64) error {
	const op = "repository.WallpaperRepo.IncrementDownloadCount"

	query, args, err := r.sb.Update("wallpapers").
		Set("download_count", squirrel.Expr("download_count + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrWallpaperNotFound)
	}

	return nil
}

// Categories returns every distinct tag, alphabetically.
func (r *WallpaperRepo) Categories(ctx context.Context) ([]string, error) {
	const op = "repository.WallpaperRepo.Categories"

	query, args, err := r.sb.Select("DISTINCT unnest(tags) AS tag").
		From("wallpapers").
		OrderBy("tag").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tags, nil
}

func (r *WallpaperRepo) query(ctx context.Context, query string, args ...interface{}) ([]models.Wallpaper, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWallpapers(rows)
}

func scanWallpapers(rows pgx.Rows) ([]models.Wallpaper, error) {
	wallpapers := make([]models.Wallpaper, 0, DefaultPageSize)
	for rows.Next() {
		w, err := scanWallpaper(rows)
		if err != nil {
			return nil, err
		}
		wallpapers = append(wallpapers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return wallpapers, nil
}

func scanWallpaper(row pgx.Row) (models.Wallpaper, error) {
	var w models.Wallpaper
	err := row.Scan(
		&w.ID,
		&w.Name,
		&w.ImageURL,
		&w.ThumbURL,
		&w.Tags,
		&w.DownloadCount,
		&w.CreatedAt,
	)
	return w, err
}
