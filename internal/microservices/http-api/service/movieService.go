package service

import (
	"context"
	"log/slog"
	"strings"

	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/validation"
)

type MovieService interface {
	CreateMovie(ctx context.Context, in models.CreateMovieInput) (int64, error)
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	ListMoviesWithSummary(ctx context.Context) ([]models.MovieSummary, error)
	DeleteMovie(ctx context.Context, id int64) (bool, error)
}

type movieService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewMovieService(store *repository.Store, logger *slog.Logger) MovieService {
	return &movieService{store: store, logger: logger}
}

// CreateMovie validates the input and inserts the movie, returning its id.
func (s *movieService) CreateMovie(ctx context.Context, in models.CreateMovieInput) (int64, error) {
	var id int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		id, err = createMovie(ctx, tx, in)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("movie created", "movie_id", id)
	return id, nil
}

func (s *movieService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	var movie *models.Movie
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		movie, err = tx.Movies.GetByID(ctx, id)
		return err
	})
	return movie, err
}

func (s *movieService) ListMoviesWithSummary(ctx context.Context) ([]models.MovieSummary, error) {
	var list []models.MovieSummary
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		list, err = tx.Movies.ListWithSummary(ctx)
		return err
	})
	return list, err
}

// DeleteMovie removes the movie and its reviews. Deleting an unknown id is a
// no-op; the bool reports whether a movie was actually removed.
func (s *movieService) DeleteMovie(ctx context.Context, id int64) (bool, error) {
	var removed int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		removed, err = tx.Movies.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if removed == 0 {
		s.logger.Debug("delete of unknown movie ignored", "movie_id", id)
	}
	return removed > 0, nil
}

// createMovie runs inside the caller's transaction.
func createMovie(ctx context.Context, tx *repository.Store, in models.CreateMovieInput) (int64, error) {
	in = normalizeMovieInput(in)
	if err := validation.Struct(in); err != nil {
		return 0, err
	}

	movie := &models.Movie{
		Title:       in.Title,
		Director:    in.Director,
		ReleaseYear: in.ReleaseYear,
		PosterURL:   in.PosterURL,
		Genre:       in.Genre,
		TrailerURL:  in.TrailerURL,
	}
	if err := tx.Movies.Create(ctx, movie); err != nil {
		return 0, err
	}
	return movie.ID, nil
}

// normalizeMovieInput trims the text fields and turns blank optional fields
// into nil so they are stored as NULL.
func normalizeMovieInput(in models.CreateMovieInput) models.CreateMovieInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Director = blankToNil(in.Director)
	in.PosterURL = blankToNil(in.PosterURL)
	in.Genre = blankToNil(in.Genre)
	in.TrailerURL = blankToNil(in.TrailerURL)
	return in
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
