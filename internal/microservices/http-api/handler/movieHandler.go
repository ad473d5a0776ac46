package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/microservices/http-api/dto"
	"moviehub/internal/microservices/http-api/service"
)

const requestTimeout = 5 * time.Second

type MovieHandler struct {
	svc    service.CatalogService
	logger *slog.Logger
}

func NewMovieHandler(svc service.CatalogService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{svc: svc, logger: logger}
}

// List is the home page: every movie with its rating summary.
func (h *MovieHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.svc.ListMovies(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMovieSummaries(list))
}

func (h *MovieHandler) Get(c *gin.Context) {
	id, ok := movieIDParam(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	detail, err := h.svc.MovieDetail(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMovieDetail(detail))
}

func (h *MovieHandler) Create(c *gin.Context) {
	var in dto.CreateMovieRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	id, err := h.svc.AddMovie(ctx, in.ToInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// Delete answers 204 whether or not the movie existed.
func (h *MovieHandler) Delete(c *gin.Context) {
	id, ok := movieIDParam(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.DeleteMovie(ctx, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MovieHandler) Summary(c *gin.Context) {
	id, ok := movieIDParam(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, err := h.svc.MovieSummary(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRatingSummary(summary))
}

// movieIDParam parses :movie_id and writes a 400 when it is not a positive integer.
func movieIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return 0, false
	}
	return id, true
}
