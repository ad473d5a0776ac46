package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moviehub/internal/microservices/http-api/dto"
	"moviehub/internal/microservices/http-api/service"
)

const maxGenreLimit = 50

type StatsHandler struct {
	svc          service.CatalogService
	logger       *slog.Logger
	defaultLimit int
}

func NewStatsHandler(svc service.CatalogService, logger *slog.Logger, defaultLimit int) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger, defaultLimit: defaultLimit}
}

// Get serves the stats page. ?genres=N overrides how many genres are ranked.
func (h *StatsHandler) Get(c *gin.Context) {
	limit := h.defaultLimit
	if g := c.Query("genres"); g != "" {
		parsed, err := strconv.Atoi(g)
		if err != nil || parsed < 0 || parsed > maxGenreLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "genres must be between 0 and 50"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	stats, err := h.svc.Stats(ctx, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSiteStats(stats))
}

type HealthHandler struct {
	svc service.CatalogService
}

func NewHealthHandler(svc service.CatalogService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
