package repository

import (
	"context"
	"errors"
	"fmt"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ProfileRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	const op = "repository.ProfileRepo.GetProfile"

	query, args, err := r.sb.Select("id", "full_name", "avatar_url", "updated_at").
		From("profiles").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Profile
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.UserID, &p.FullName, &p.AvatarURL, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, storage.ErrProfileNotFound)
		}
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// UpdateProfile меняет только переданные (не nil) поля
func (r *ProfileRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, avatarURL *string) (models.Profile, error) {
	const op = "repository.ProfileRepo.UpdateProfile"

	builder := r.sb.Update("profiles").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": userID}).
		Suffix("RETURNING id, full_name, avatar_url, updated_at")

	if fullName != nil {
		builder = builder.Set("full_name", *fullName)
	}
	if avatarURL != nil {
		builder = builder.Set("avatar_url", *avatarURL)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Profile
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.UserID, &p.FullName, &p.AvatarURL, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, storage.ErrProfileNotFound)
		}
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}
