package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/database"
	"moviehub/internal/cache"
	"moviehub/internal/config"
	"moviehub/internal/logging"
	"moviehub/internal/microservices/http-api/handler"
	"moviehub/internal/microservices/http-api/middleware"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/microservices/http-api/service"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.New("moviehub-api", cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to the database; the schema is ensured before anything else runs
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("database startup failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// 3. Optional stats cache
	var statsCache service.StatsCache
	if cfg.CacheEnabled() {
		c, err := cache.NewStatsCache(cfg.RedisURL, cfg.CacheDuration())
		if err != nil {
			logger.Warn("stats cache disabled", "error", err)
		} else {
			defer c.Close()
			statsCache = c
			logger.Info("stats cache enabled", "ttl", cfg.CacheDuration())
		}
	}

	catalog := service.NewCatalogService(repository.NewStore(db), statsCache, logger)

	// 4. Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r, err := handler.NewEngine(cfg.TrustedProxyList())
	if err != nil {
		logger.Error("router setup failed", "error", err)
		os.Exit(1)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))

	handler.RegisterRoutes(r, catalog, handler.RouterOptions{
		Logger:         logger,
		TopGenresLimit: cfg.TopGenresLimit,
		WriteLimiter:   middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
