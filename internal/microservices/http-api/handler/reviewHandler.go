package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moviehub/internal/microservices/http-api/dto"
	"moviehub/internal/microservices/http-api/service"
)

type ReviewHandler struct {
	svc    service.CatalogService
	logger *slog.Logger
}

func NewReviewHandler(svc service.CatalogService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

func (h *ReviewHandler) List(c *gin.Context) {
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	reviews, err := h.svc.ListReviews(ctx, movieID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewListResponse{Data: reviews, Total: len(reviews)})
}

func (h *ReviewHandler) Create(c *gin.Context) {
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}
	var in dto.AddReviewRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	id, err := h.svc.AddReview(ctx, in.ToInput(movieID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}
