package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/logger/sl"
	"pg_wallpaper/internal/metrics"
	"pg_wallpaper/internal/repository"
	"pg_wallpaper/internal/storage"

	"github.com/google/uuid"
)

var ErrWallpaperNotFound = errors.New("wallpaper not found")

type FavoriteService struct {
	log  *slog.Logger
	repo repository.FavoriteRepository
}

func NewFavoriteService(log *slog.Logger, repo repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{
		log:  log,
		repo: repo,
	}
}

// Add is idempotent: adding an existing favorite succeeds.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, wallpaperID int64) error {
	const op = "service.FavoriteService.Add"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.Int64("wallpaper_id", wallpaperID),
	)

	if err := s.repo.AddFavorite(ctx, userID, wallpaperID); err != nil {
		if errors.Is(err, storage.ErrWallpaperNotFound) {
			log.Warn("wallpaper not found")
			return fmt.Errorf("%s: %w", op, ErrWallpaperNotFound)
		}
		log.Error("failed to add favorite", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.FavoriteTogglesTotal.WithLabelValues("add").Inc()
	log.Info("favorite added")

	return nil
}

// Remove is idempotent as well.
func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, wallpaperID int64) error {
	const op = "service.FavoriteService.Remove"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.Int64("wallpaper_id", wallpaperID),
	)

	if err := s.repo.RemoveFavorite(ctx, userID, wallpaperID); err != nil {
		log.Error("failed to remove favorite", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.FavoriteTogglesTotal.WithLabelValues("remove").Inc()
	log.Info("favorite removed")

	return nil
}

func (s *FavoriteService) IDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	const op = "service.FavoriteService.IDs"

	ids, err := s.repo.FavoriteIDs(ctx, userID)
	if err != nil {
		s.log.Error("failed to list favorite ids", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ids == nil {
		ids = []int64{}
	}

	return ids, nil
}

// Wallpapers returns the user's favorites, most recently added first.
func (s *FavoriteService) Wallpapers(ctx context.Context, userID uuid.UUID) ([]models.Wallpaper, error) {
	const op = "service.FavoriteService.Wallpapers"

	wallpapers, err := s.repo.FavoriteWallpapers(ctx, userID)
	if err != nil {
		s.log.Error("failed to list favorite wallpapers", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if wallpapers == nil {
		wallpapers = []models.Wallpaper{}
	}

	return wallpapers, nil
}
