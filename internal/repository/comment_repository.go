package repository

import (
	"context"
	"errors"
	"fmt"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type CommentRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewCommentRepo(db *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CommentsByWallpaper возвращает комментарии к обоям вместе с профилем автора, новые первыми
func (r *CommentRepo) CommentsByWallpaper(ctx context.Context, wallpaperID int64) ([]models.Comment, error) {
	const op = "repository.CommentRepo.CommentsByWallpaper"

	query, args, err := r.sb.Select(
		"c.id", "c.wallpaper_id", "c.user_id", "c.content", "c.created_at",
		"p.full_name", "p.avatar_url",
	).
		From("comments c").
		LeftJoin("profiles p ON p.id = c.user_id").
		Where(squirrel.Eq{"c.wallpaper_id": wallpaperID}).
		OrderBy("c.created_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}

// SaveComment inserts the comment and returns it joined with the author's profile.
func (r *CommentRepo) SaveComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	const op = "repository.CommentRepo.SaveComment"

	insert, args, err := r.sb.Insert("comments").
		Columns("wallpaper_id", "user_id", "content").
		Values(comment.WallpaperID, comment.UserID, comment.Content).
		Suffix("RETURNING id, wallpaper_id, user_id, content, created_at").
		ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	query := "WITH inserted AS (" + insert + `)
		SELECT i.id, i.wallpaper_id, i.user_id, i.content, i.created_at, p.full_name, p.avatar_url
		FROM inserted i
		LEFT JOIN profiles p ON p.id = i.user_id`

	saved, err := scanComment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrWallpaperNotFound)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, fmt.Errorf("%s: comment not returned: %w", op, err)
		}
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func scanComment(row pgx.Row) (models.Comment, error) {
	var (
		c      models.Comment
		author models.CommentAuthor
	)

	err := row.Scan(
		&c.ID,
		&c.WallpaperID,
		&c.UserID,
		&c.Content,
		&c.CreatedAt,
		&author.FullName,
		&author.AvatarURL,
	)
	if err != nil {
		return models.Comment{}, err
	}

	c.Author = &author

	return c, nil
}
