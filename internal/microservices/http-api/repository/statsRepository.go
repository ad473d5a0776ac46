package repository

import (
	"context"

	"moviehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// StatsRepo runs the site-wide aggregation queries. Anything the engines
// cannot express portably (genre label splitting) is left to the caller.
type StatsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

type RatingCount struct {
	Rating int
	Count  int64
}

// RatingCounts returns one row per rating value that occurs at least once.
func (r *StatsRepo) RatingCounts(ctx context.Context) ([]RatingCount, error) {
	var rows []RatingCount
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Order("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError("rating histogram", err)
	}
	return rows, nil
}

// MovieGenreCount is the review count of one movie that has a genre field.
type MovieGenreCount struct {
	MovieID     int64
	Genre       string
	ReviewCount int64
}

// GenreReviewCounts returns, for every movie with a non-empty genre field and
// at least one review, the raw genre field and its review count.
func (r *StatsRepo) GenreReviewCounts(ctx context.Context) ([]MovieGenreCount, error) {
	var rows []MovieGenreCount
	err := r.db.WithContext(ctx).
		Table("movies AS m").
		Select("m.id AS movie_id, m.genre AS genre, COUNT(r.id) AS review_count").
		Joins("JOIN reviews AS r ON r.movie_id = m.id").
		Where("m.genre IS NOT NULL AND m.genre <> ''").
		Group("m.id, m.genre").
		Order("m.id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError("genre review counts", err)
	}
	return rows, nil
}

// ReviewsPerWatchYear groups dated reviews by the year prefix of watch_date.
func (r *StatsRepo) ReviewsPerWatchYear(ctx context.Context) ([]models.YearCount, error) {
	rows := []models.YearCount{}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("SUBSTR(watch_date, 1, 4) AS watch_year, COUNT(*) AS count").
		Where("watch_date IS NOT NULL AND watch_date <> ''").
		Group("SUBSTR(watch_date, 1, 4)").
		Order("watch_year ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError("reviews per watch year", err)
	}
	return rows, nil
}
