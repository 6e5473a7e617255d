package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/logger/sl"
	"pg_wallpaper/internal/metrics"
	"pg_wallpaper/internal/repository"
	"pg_wallpaper/internal/storage"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultTopLimit = 5
	MaxTopLimit     = 50
	MaxPageSize     = 100

	categoriesKey = "categories"
	topKeyPrefix  = "top:"
)

var (
	ErrInvalidQuery      = errors.New("invalid wallpaper query")
	ErrWallpaperNotFound = errors.New("wallpaper not found")
)

type WallpaperService struct {
	log   *slog.Logger
	repo  repository.WallpaperRepository
	cache *cache.Cache
}

func NewWallpaperService(log *slog.Logger, repo repository.WallpaperRepository, c *cache.Cache) *WallpaperService {
	return &WallpaperService{
		log:   log,
		repo:  repo,
		cache: c,
	}
}

// List returns one page of the listing. Missing sort and page size get defaults.
func (s *WallpaperService) List(ctx context.Context, q models.WallpaperQuery) ([]models.Wallpaper, error) {
	const op = "service.WallpaperService.List"

	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	if q.Category == "" {
		q.Category = models.CategoryAll
	}
	if q.Sort == "" {
		q.Sort = models.SortRecent
	}
	if q.PageSize == 0 {
		q.PageSize = repository.DefaultPageSize
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("search", q.Search),
		slog.String("category", q.Category),
		slog.String("sort", string(q.Sort)),
		slog.Int("page", q.Page),
	)

	if !q.Sort.Valid() || q.Page < 0 || q.PageSize < 0 || q.PageSize > MaxPageSize {
		log.Warn("invalid query")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuery)
	}

	wallpapers, err := s.repo.ListWallpapers(ctx, q)
	if err != nil {
		log.Error("failed to list wallpapers", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("wallpapers listed", slog.Int("count", len(wallpapers)))

	return wallpapers, nil
}

// Top returns the most downloaded wallpapers for the carousel.
func (s *WallpaperService) Top(ctx context.Context, limit int) ([]models.Wallpaper, error) {
	const op = "service.WallpaperService.Top"

	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}

	key := topKeyPrefix + strconv.Itoa(limit)
	if cached, ok := s.cache.Get(key); ok {
		metrics.CacheHitsTotal.WithLabelValues("top", "hit").Inc()
		return cached.([]models.Wallpaper), nil
	}
	metrics.CacheHitsTotal.WithLabelValues("top", "miss").Inc()

	wallpapers, err := s.repo.TopDownloads(ctx, limit)
	if err != nil {
		s.log.Error("failed to get top downloads", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.SetDefault(key, wallpapers)

	return wallpapers, nil
}

func (s *WallpaperService) Categories(ctx context.Context) ([]string, error) {
	const op = "service.WallpaperService.Categories"

	if cached, ok := s.cache.Get(categoriesKey); ok {
		metrics.CacheHitsTotal.WithLabelValues(categoriesKey, "hit").Inc()
		return cached.([]string), nil
	}
	metrics.CacheHitsTotal.WithLabelValues(categoriesKey, "miss").Inc()

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		s.log.Error("failed to get categories", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if categories == nil {
		categories = []string{}
	}

	s.cache.SetDefault(categoriesKey, categories)

	return categories, nil
}

func (s *WallpaperService) Get(ctx context.Context, id int64) (models.Wallpaper, error) {
	const op = "service.WallpaperService.Get"

	w, err := s.repo.GetWallpaperByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrWallpaperNotFound) {
			return models.Wallpaper{}, fmt.Errorf("%s: %w", op, ErrWallpaperNotFound)
		}
		s.log.Error("failed to get wallpaper", slog.String("op", op), slog.Int64("id", id), sl.Err(err))
		return models.Wallpaper{}, fmt.Errorf("%s: %w", op, err)
	}

	return w, nil
}

// IncrementDownload is the only way download_count changes.
func (s *WallpaperService) IncrementDownload(ctx context.Context, id int64) error {
	const op = "service.WallpaperService.IncrementDownload"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("wallpaper_id", id),
	)

	if err := s.repo.IncrementDownloadCount(ctx, id); err != nil {
		if errors.Is(err, storage.ErrWallpaperNotFound) {
			log.Warn("wallpaper not found")
			return fmt.Errorf("%s: %w", op, ErrWallpaperNotFound)
		}
		log.Error("failed to increment download count", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.WallpaperDownloadsTotal.Inc()
	log.Info("download recorded")

	return nil
}
