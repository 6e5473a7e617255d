package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"pg_wallpaper/internal/config"
	appmiddleware "pg_wallpaper/internal/middleware"
	httprouters "pg_wallpaper/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "pg_wallpaper/docs"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log        *slog.Logger
	e          *echo.Echo
	routers    *httprouters.Routers
	cfg        config.HTTPConfig
	uploadsDir string
}

func New(log *slog.Logger, cfg config.HTTPConfig, sessionSecret, uploadsDir string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogMethod:   true,
		LogLatency:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			)

			return nil
		},
	}))

	return &Server{
		log:        log,
		e:          e,
		routers:    routers,
		cfg:        cfg,
		uploadsDir: uploadsDir,
	}
}

// ServeHTTP lets tests drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("port", s.cfg.Port))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	const op = "http.Server.Stop"

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.uploadsDir != "" {
		s.e.Static("/uploads", s.uploadsDir)
	}

	api := s.e.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", s.routers.SignUp)
			authGroup.POST("/signin", s.routers.SignIn)
			authGroup.POST("/refresh", s.routers.Refresh)
			authGroup.POST("/signout", s.routers.SignOut, s.routers.RequireAuth)
			authGroup.GET("/me", s.routers.Me, s.routers.RequireAuth)
		}

		api.GET("/categories", s.routers.Categories)

		wallpaperGroup := api.Group("/wallpapers")
		{
			wallpaperGroup.GET("", s.routers.ListWallpapers)
			wallpaperGroup.GET("/top", s.routers.TopWallpapers)
			wallpaperGroup.GET("/:id", s.routers.GetWallpaper)
			wallpaperGroup.GET("/:id/comments", s.routers.ListComments)
			wallpaperGroup.POST("/:id/comments", s.routers.PostComment, s.routers.RequireAuth)
		}

		favoriteGroup := api.Group("/favorites", s.routers.RequireAuth)
		{
			favoriteGroup.GET("", s.routers.FavoriteIDs)
			favoriteGroup.GET("/wallpapers", s.routers.FavoriteWallpapers)
			favoriteGroup.PUT("/:wallpaper_id", s.routers.AddFavorite)
			favoriteGroup.DELETE("/:wallpaper_id", s.routers.RemoveFavorite)
		}

		api.POST("/functions/increment-download", s.routers.IncrementDownload)

		profileGroup := api.Group("/profile", s.routers.RequireAuth)
		{
			profileGroup.GET("", s.routers.GetProfile)
			profileGroup.PATCH("", s.routers.UpdateProfile)
			profileGroup.POST("/avatar", s.routers.UploadAvatar)
		}
	}
}
