package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WallpaperDownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallpaper_downloads_total",
			Help: "Number of recorded wallpaper downloads",
		},
	)

	FavoriteTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorite_toggles_total",
			Help: "Favorite inserts and deletes",
		},
		[]string{"action"},
	)

	CommentsPostedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_posted_total",
			Help: "Number of posted comments",
		},
	)

	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "In-memory cache lookups by key and result",
		},
		[]string{"key", "result"},
	)
)
