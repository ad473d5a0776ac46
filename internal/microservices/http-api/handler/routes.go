package handler

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"moviehub/internal/microservices/http-api/middleware"
	"moviehub/internal/microservices/http-api/service"
)

type RouterOptions struct {
	Logger         *slog.Logger
	TopGenresLimit int
	// WriteLimiter guards the mutating routes; nil disables rate limiting
	WriteLimiter *middleware.RateLimiter
}

// NewEngine returns a bare gin engine that only honours X-Forwarded-For from
// the given proxies. With none, ClientIP is always the socket peer.
func NewEngine(trustedProxies []string) (*gin.Engine, error) {
	r := gin.New()
	if len(trustedProxies) == 0 {
		trustedProxies = nil
	}
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return r, nil
}

// RegisterRoutes mounts the catalog API on r.
func RegisterRoutes(r gin.IRouter, svc service.CatalogService, opts RouterOptions) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var write gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.WriteLimiter != nil {
		write = opts.WriteLimiter.Middleware()
	}

	movies := NewMovieHandler(svc, logger)
	reviews := NewReviewHandler(svc, logger)
	stats := NewStatsHandler(svc, logger, opts.TopGenresLimit)
	health := NewHealthHandler(svc)

	r.GET("/healthz", health.Check)

	api := r.Group("/api")
	{
		api.GET("/movies", movies.List)
		api.POST("/movies", write, movies.Create)
		api.GET("/movies/:movie_id", movies.Get)
		api.DELETE("/movies/:movie_id", write, movies.Delete)
		api.GET("/movies/:movie_id/summary", movies.Summary)
		api.GET("/movies/:movie_id/reviews", reviews.List)
		api.POST("/movies/:movie_id/reviews", write, reviews.Create)
		api.GET("/stats", stats.Get)
	}
}
