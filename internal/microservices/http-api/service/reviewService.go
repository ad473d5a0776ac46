package service

import (
	"context"
	"log/slog"

	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"
	"moviehub/internal/validation"
)

type ReviewService interface {
	AddReview(ctx context.Context, in models.AddReviewInput) (int64, error)
	ListReviewsForMovie(ctx context.Context, movieID int64) ([]models.Review, error)
}

type reviewService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewReviewService(store *repository.Store, logger *slog.Logger) ReviewService {
	return &reviewService{store: store, logger: logger}
}

// AddReview validates the review and attaches it to an existing movie.
func (s *reviewService) AddReview(ctx context.Context, in models.AddReviewInput) (int64, error) {
	var id int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		id, err = addReview(ctx, tx, in)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("review added", "review_id", id, "movie_id", in.MovieID, "rating", in.Rating)
	return id, nil
}

// ListReviewsForMovie returns an empty list for unknown or deleted movies.
func (s *reviewService) ListReviewsForMovie(ctx context.Context, movieID int64) ([]models.Review, error) {
	var reviews []models.Review
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		reviews, err = tx.Reviews.ListByMovie(ctx, movieID)
		return err
	})
	return reviews, err
}

// addReview runs inside the caller's transaction. The movie check is repeated
// by the foreign key when the row is inserted.
func addReview(ctx context.Context, tx *repository.Store, in models.AddReviewInput) (int64, error) {
	in.ReviewText = blankToNil(in.ReviewText)
	in.WatchDate = blankToNil(in.WatchDate)
	if err := validation.Struct(in); err != nil {
		return 0, err
	}

	exists, err := tx.Movies.Exists(ctx, in.MovieID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, shared.NewValidationError("movie_id", "movie does not exist")
	}

	review := &models.Review{
		MovieID:    in.MovieID,
		Rating:     in.Rating,
		ReviewText: in.ReviewText,
		WatchDate:  in.WatchDate,
	}
	if err := tx.Reviews.Create(ctx, review); err != nil {
		return 0, err
	}
	return review.ID, nil
}
