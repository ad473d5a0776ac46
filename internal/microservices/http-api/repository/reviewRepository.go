package repository

import (
	"context"
	"database/sql"

	"moviehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create inserts a review. The foreign key rejects unknown movies and the
// CHECK constraint rejects ratings outside 1..5.
func (r *ReviewRepo) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return translateError("create review", err)
	}
	return nil
}

// ListByMovie returns the movie's reviews, latest watch date first with
// undated reviews last, newest review first among equal dates.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("CASE WHEN watch_date IS NULL THEN 1 ELSE 0 END").
		Order("watch_date DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translateError("list reviews", err)
	}
	return reviews, nil
}

// Summary calculates the average rating and review count for a movie
func (r *ReviewRepo) Summary(ctx context.Context, movieID int64) (models.RatingSummary, error) {
	var row struct {
		AvgRating   sql.NullFloat64
		ReviewCount int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating) AS avg_rating, COUNT(id) AS review_count").
		Where("movie_id = ?", movieID).
		Scan(&row).Error
	if err != nil {
		return models.RatingSummary{}, translateError("summarize reviews", err)
	}
	return summaryFrom(row.AvgRating, row.ReviewCount), nil
}

func (r *ReviewRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&count).Error; err != nil {
		return 0, translateError("count reviews", err)
	}
	return count, nil
}
