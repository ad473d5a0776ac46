package service

import (
	"context"
	"sort"

	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"
)

// StatsService derives the per-movie and site-wide aggregates from reviews.
type StatsService interface {
	MovieSummary(ctx context.Context, movieID int64) (models.RatingSummary, error)
	RatingHistogram(ctx context.Context) (map[int]int64, error)
	TopGenresByReviewCount(ctx context.Context, limit int) ([]models.GenreCount, error)
	ReviewsPerWatchYear(ctx context.Context) ([]models.YearCount, error)
	SiteStats(ctx context.Context, genreLimit int) (*models.SiteStats, error)
}

type statsService struct {
	store *repository.Store
}

func NewStatsService(store *repository.Store) StatsService {
	return &statsService{store: store}
}

// MovieSummary returns the unrounded mean rating and review count of a movie.
func (s *statsService) MovieSummary(ctx context.Context, movieID int64) (models.RatingSummary, error) {
	var summary models.RatingSummary
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		summary, err = movieSummary(ctx, tx, movieID)
		return err
	})
	return summary, err
}

func (s *statsService) RatingHistogram(ctx context.Context) (map[int]int64, error) {
	var histogram map[int]int64
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		histogram, err = ratingHistogram(ctx, tx)
		return err
	})
	return histogram, err
}

func (s *statsService) TopGenresByReviewCount(ctx context.Context, limit int) ([]models.GenreCount, error) {
	if limit <= 0 {
		return []models.GenreCount{}, nil
	}
	var top []models.GenreCount
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		top, err = topGenres(ctx, tx, limit)
		return err
	})
	return top, err
}

func (s *statsService) ReviewsPerWatchYear(ctx context.Context) ([]models.YearCount, error) {
	var years []models.YearCount
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		years, err = tx.Stats.ReviewsPerWatchYear(ctx)
		return err
	})
	return years, err
}

// SiteStats computes every site-wide aggregate from one consistent read.
func (s *statsService) SiteStats(ctx context.Context, genreLimit int) (*models.SiteStats, error) {
	stats := &models.SiteStats{}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if stats.TotalMovies, err = tx.Movies.Count(ctx); err != nil {
			return err
		}
		if stats.TotalReviews, err = tx.Reviews.Count(ctx); err != nil {
			return err
		}
		if stats.RatingHistogram, err = ratingHistogram(ctx, tx); err != nil {
			return err
		}
		if stats.TopGenres, err = topGenres(ctx, tx, genreLimit); err != nil {
			return err
		}
		stats.WatchYears, err = tx.Stats.ReviewsPerWatchYear(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func movieSummary(ctx context.Context, tx *repository.Store, movieID int64) (models.RatingSummary, error) {
	exists, err := tx.Movies.Exists(ctx, movieID)
	if err != nil {
		return models.RatingSummary{}, err
	}
	if !exists {
		return models.RatingSummary{}, shared.NotFoundf("movie %d", movieID)
	}
	return tx.Reviews.Summary(ctx, movieID)
}

// ratingHistogram always has an entry for every rating value, zero included.
func ratingHistogram(ctx context.Context, tx *repository.Store) (map[int]int64, error) {
	rows, err := tx.Stats.RatingCounts(ctx)
	if err != nil {
		return nil, err
	}
	histogram := make(map[int]int64, len(models.RatingValues))
	for _, v := range models.RatingValues {
		histogram[v] = 0
	}
	for _, row := range rows {
		histogram[row.Rating] = row.Count
	}
	return histogram, nil
}

func topGenres(ctx context.Context, tx *repository.Store, limit int) ([]models.GenreCount, error) {
	if limit <= 0 {
		return []models.GenreCount{}, nil
	}
	rows, err := tx.Stats.GenreReviewCounts(ctx)
	if err != nil {
		return nil, err
	}
	return rankGenres(rows, limit), nil
}

// rankGenres credits each movie's full review count to every one of its
// labels, then orders by count descending and label ascending.
func rankGenres(rows []repository.MovieGenreCount, limit int) []models.GenreCount {
	if limit <= 0 {
		return []models.GenreCount{}
	}

	totals := make(map[string]int64)
	for _, row := range rows {
		genre := row.Genre
		for _, label := range models.UniqueGenres(&genre) {
			totals[label] += row.ReviewCount
		}
	}

	ranked := make([]models.GenreCount, 0, len(totals))
	for label, count := range totals {
		ranked = append(ranked, models.GenreCount{Genre: label, ReviewCount: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ReviewCount != ranked[j].ReviewCount {
			return ranked[i].ReviewCount > ranked[j].ReviewCount
		}
		return ranked[i].Genre < ranked[j].Genre
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
