package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"
)

// StatsCache is the optional store for computed site statistics.
// Implementations must treat a miss as (nil, gen, nil).
type StatsCache interface {
	Get(ctx context.Context, genreLimit int) (*models.SiteStats, int64, error)
	Set(ctx context.Context, gen int64, genreLimit int, stats *models.SiteStats) error
	Invalidate(ctx context.Context) error
}

// CatalogService is the single entry point used by the HTTP API and the CLI.
// Every call is one transaction; reads never mix rows from different commits.
type CatalogService interface {
	ListMovies(ctx context.Context) ([]models.MovieSummary, error)
	MovieDetail(ctx context.Context, movieID int64) (*models.MovieDetail, error)
	AddMovie(ctx context.Context, in models.CreateMovieInput) (int64, error)
	DeleteMovie(ctx context.Context, movieID int64) error
	AddReview(ctx context.Context, in models.AddReviewInput) (int64, error)
	ListReviews(ctx context.Context, movieID int64) ([]models.Review, error)
	MovieSummary(ctx context.Context, movieID int64) (models.RatingSummary, error)
	Stats(ctx context.Context, genreLimit int) (*models.SiteStats, error)
	ImportCatalog(ctx context.Context, seed models.CatalogSeed) (*models.ImportResult, error)
	Ping(ctx context.Context) error
}

type catalogService struct {
	store   *repository.Store
	movies  MovieService
	reviews ReviewService
	stats   StatsService
	cache   StatsCache
	logger  *slog.Logger

	// set when an invalidation failed; the cache may hold pre-write stats
	// until a later Invalidate succeeds
	cacheSuspect atomic.Bool
}

// NewCatalogService wires the façade. cache may be nil.
func NewCatalogService(store *repository.Store, cache StatsCache, logger *slog.Logger) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		store:   store,
		movies:  NewMovieService(store, logger),
		reviews: NewReviewService(store, logger),
		stats:   NewStatsService(store),
		cache:   cache,
		logger:  logger,
	}
}

func (s *catalogService) ListMovies(ctx context.Context) ([]models.MovieSummary, error) {
	return s.movies.ListMoviesWithSummary(ctx)
}

// MovieDetail reads the movie, its summary and all its reviews in one
// transaction. A movie deleted before the read began is ErrNotFound.
func (s *catalogService) MovieDetail(ctx context.Context, movieID int64) (*models.MovieDetail, error) {
	var detail *models.MovieDetail
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		movie, err := tx.Movies.GetByID(ctx, movieID)
		if err != nil {
			return err
		}
		summary, err := tx.Reviews.Summary(ctx, movieID)
		if err != nil {
			return err
		}
		reviews, err := tx.Reviews.ListByMovie(ctx, movieID)
		if err != nil {
			return err
		}
		detail = &models.MovieDetail{
			Movie:   *movie,
			Genres:  movie.Genres(),
			Summary: summary,
			Reviews: reviews,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *catalogService) AddMovie(ctx context.Context, in models.CreateMovieInput) (int64, error) {
	id, err := s.movies.CreateMovie(ctx, in)
	if err != nil {
		return 0, err
	}
	s.logger.Info("movie added", "movie_id", id)
	s.invalidateStats(ctx)
	return id, nil
}

func (s *catalogService) DeleteMovie(ctx context.Context, movieID int64) error {
	removed, err := s.movies.DeleteMovie(ctx, movieID)
	if err != nil {
		return err
	}
	if removed {
		s.logger.Info("movie deleted", "movie_id", movieID)
		s.invalidateStats(ctx)
	}
	return nil
}

func (s *catalogService) AddReview(ctx context.Context, in models.AddReviewInput) (int64, error) {
	id, err := s.reviews.AddReview(ctx, in)
	if err != nil {
		return 0, err
	}
	s.logger.Info("review added", "review_id", id, "movie_id", in.MovieID)
	s.invalidateStats(ctx)
	return id, nil
}

func (s *catalogService) ListReviews(ctx context.Context, movieID int64) ([]models.Review, error) {
	return s.reviews.ListReviewsForMovie(ctx, movieID)
}

func (s *catalogService) MovieSummary(ctx context.Context, movieID int64) (models.RatingSummary, error) {
	return s.stats.MovieSummary(ctx, movieID)
}

// Stats serves the stats page, from the cache when it holds a fresh entry.
// Cache failures are logged and never fail the request.
func (s *catalogService) Stats(ctx context.Context, genreLimit int) (*models.SiteStats, error) {
	if !s.cacheUsable(ctx) {
		return s.stats.SiteStats(ctx, genreLimit)
	}

	var gen int64
	if s.cache != nil {
		cached, g, err := s.cache.Get(ctx, genreLimit)
		switch {
		case err != nil:
			s.logger.Warn("stats cache read failed", "error", err)
		case cached != nil:
			return cached, nil
		}
		gen = g
	}

	stats, err := s.stats.SiteStats(ctx, genreLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, gen, genreLimit, stats); err != nil {
			s.logger.Warn("stats cache write failed", "error", err)
		}
	}
	return stats, nil
}

// ImportCatalog adds every movie of the seed with its reviews. The import is
// all-or-nothing: the first invalid entry rolls the whole batch back.
func (s *catalogService) ImportCatalog(ctx context.Context, seed models.CatalogSeed) (*models.ImportResult, error) {
	result := &models.ImportResult{}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		for i, sm := range seed.Movies {
			movieID, err := createMovie(ctx, tx, sm.ToInput())
			if err != nil {
				return prefixFields(err, fmt.Sprintf("movies[%d].", i))
			}
			result.MoviesImported++

			for j, sr := range sm.Reviews {
				if _, err := addReview(ctx, tx, sr.ToInput(movieID)); err != nil {
					return prefixFields(err, fmt.Sprintf("movies[%d].reviews[%d].", i, j))
				}
				result.ReviewsImported++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog imported",
		"movies", result.MoviesImported,
		"reviews", result.ReviewsImported,
	)
	if result.MoviesImported > 0 {
		s.invalidateStats(ctx)
	}
	return result, nil
}

func (s *catalogService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *catalogService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.cacheSuspect.Store(true)
		s.logger.Warn("stats cache invalidation failed, bypassing cache", "error", err)
		return
	}
	s.cacheSuspect.Store(false)
}

// cacheUsable reports whether Stats may read the cache. After a failed
// invalidation it retries once per call and stays bypassed until one succeeds.
func (s *catalogService) cacheUsable(ctx context.Context) bool {
	if s.cache == nil || !s.cacheSuspect.Load() {
		return true
	}
	s.invalidateStats(ctx)
	return !s.cacheSuspect.Load()
}

// prefixFields locates a validation failure inside a batch by prefixing
// each field name. Other errors are returned unchanged.
func prefixFields(err error, prefix string) error {
	var ve *shared.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	out := &shared.ValidationError{Fields: make(map[string]string, len(ve.Fields))}
	for field, msg := range ve.Fields {
		out.Fields[prefix+field] = msg
	}
	return out
}
