package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/logger/sl"
	"pg_wallpaper/internal/metrics"
	"pg_wallpaper/internal/repository"
	"pg_wallpaper/internal/storage"

	"github.com/google/uuid"
)

const MaxCommentLength = 2000

var (
	ErrEmptyComment      = errors.New("comment cannot be empty")
	ErrCommentTooLong    = errors.New("comment is too long")
	ErrWallpaperNotFound = errors.New("wallpaper not found")
)

type CommentService struct {
	log  *slog.Logger
	repo repository.CommentRepository
}

func NewCommentService(log *slog.Logger, repo repository.CommentRepository) *CommentService {
	return &CommentService{
		log:  log,
		repo: repo,
	}
}

// List returns the comments of a wallpaper, newest first.
func (s *CommentService) List(ctx context.Context, wallpaperID int64) ([]models.Comment, error) {
	const op = "service.CommentService.List"

	comments, err := s.repo.CommentsByWallpaper(ctx, wallpaperID)
	if err != nil {
		s.log.Error("failed to list comments",
			slog.String("op", op),
			slog.Int64("wallpaper_id", wallpaperID),
			sl.Err(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}

func (s *CommentService) Post(ctx context.Context, userID uuid.UUID, wallpaperID int64, content string) (models.Comment, error) {
	const op = "service.CommentService.Post"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.Int64("wallpaper_id", wallpaperID),
	)

	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("%s: %w", op, ErrEmptyComment)
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return models.Comment{}, fmt.Errorf("%s: %w", op, ErrCommentTooLong)
	}

	saved, err := s.repo.SaveComment(ctx, models.Comment{
		WallpaperID: wallpaperID,
		UserID:      userID,
		Content:     content,
	})
	if err != nil {
		if errors.Is(err, storage.ErrWallpaperNotFound) {
			log.Warn("wallpaper not found")
			return models.Comment{}, fmt.Errorf("%s: %w", op, ErrWallpaperNotFound)
		}
		log.Error("failed to save comment", sl.Err(err))
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.CommentsPostedTotal.Inc()
	log.Info("comment posted", slog.Int64("comment_id", saved.ID))

	return saved, nil
}
