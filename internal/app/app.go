package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "pg_wallpaper/internal/app/http"
	"pg_wallpaper/internal/config"
	"pg_wallpaper/internal/repository"
	"pg_wallpaper/internal/services/auth"
	comments "pg_wallpaper/internal/services/comment_service"
	favorites "pg_wallpaper/internal/services/favorite_service"
	profiles "pg_wallpaper/internal/services/profile_service"
	wallpapers "pg_wallpaper/internal/services/wallpaper_service"
	filestorage "pg_wallpaper/internal/storage/filestorage"
	"pg_wallpaper/internal/storage/postgresql"
	redisapp "pg_wallpaper/internal/storage/redis"
	httprouters "pg_wallpaper/internal/transport/http"

	"github.com/patrickmn/go-cache"
)

type App struct {
	HTTPServer *httpapp.Server
	repo       *repository.Repository
	redis      *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	pool, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := postgresql.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL, cfg.FileStorage.MaxSize)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(pool)
	tokenRepo := repository.NewRedisTokenRepo(redisClient)
	memCache := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)

	authService := auth.New(log, repo.User, repo.Profile, tokenRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	wallpaperService := wallpapers.NewWallpaperService(log, repo.Wallpaper, memCache)
	favoriteService := favorites.NewFavoriteService(log, repo.Favorite)
	commentService := comments.NewCommentService(log, repo.Comment)
	profileService := profiles.NewProfileService(log, repo.Profile, fileStorage)

	routers := httprouters.NewRouter(
		log,
		authService,
		wallpaperService,
		favoriteService,
		commentService,
		profileService,
		map[string]httprouters.HealthCheck{
			"postgres": pool.Ping,
			"redis":    redisClient.HealthCheck,
		},
	)

	server := httpapp.New(log, cfg.HTTP, cfg.SessionSecret, fileStorage.GetBaseDir(), routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}, nil
}

// Close releases the database pool and the redis connection.
func (a *App) Close() {
	a.repo.Close()
	_ = a.redis.Close()
}
