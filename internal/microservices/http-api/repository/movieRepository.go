package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"moviehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type MovieRepo struct {
	db *gorm.DB
}

func NewMovieRepo(db *gorm.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

func (r *MovieRepo) Create(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError("create movie", err)
	}
	// GORM will populate m.ID
	return nil
}

func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translateError(fmt.Sprintf("movie %d", id), err)
	}
	return &m, nil
}

func (r *MovieRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Movie{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError("check movie", err)
	}
	return count > 0, nil
}

// Delete removes the movie; the reviews go with it through ON DELETE CASCADE.
// It reports how many movie rows were removed (0 for an unknown id).
func (r *MovieRepo) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Movie{}, id)
	if result.Error != nil {
		return 0, translateError("delete movie", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *MovieRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Movie{}).Count(&count).Error; err != nil {
		return 0, translateError("count movies", err)
	}
	return count, nil
}

type movieSummaryRow struct {
	ID          int64
	Title       string
	Director    *string
	ReleaseYear *int
	PosterURL   *string
	Genre       *string
	TrailerURL  *string
	AvgRating   sql.NullFloat64
	ReviewCount int64
}

// ListWithSummary returns every movie with its average rating and review
// count. The LEFT JOIN keeps movies without reviews (nil average, count 0).
// Rows are ordered by title using byte-wise comparison, then by id, so the
// order does not depend on the engine's collation.
func (r *MovieRepo) ListWithSummary(ctx context.Context) ([]models.MovieSummary, error) {
	var rows []movieSummaryRow
	err := r.db.WithContext(ctx).
		Table("movies AS m").
		Select("m.id, m.title, m.director, m.release_year, m.poster_url, m.genre, m.trailer_url, " +
			"AVG(r.rating) AS avg_rating, COUNT(r.id) AS review_count").
		Joins("LEFT JOIN reviews AS r ON r.movie_id = m.id").
		Group("m.id, m.title, m.director, m.release_year, m.poster_url, m.genre, m.trailer_url").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError("list movies", err)
	}

	list := make([]models.MovieSummary, 0, len(rows))
	for _, row := range rows {
		list = append(list, models.MovieSummary{
			Movie: models.Movie{
				ID:          row.ID,
				Title:       row.Title,
				Director:    row.Director,
				ReleaseYear: row.ReleaseYear,
				PosterURL:   row.PosterURL,
				Genre:       row.Genre,
				TrailerURL:  row.TrailerURL,
			},
			RatingSummary: summaryFrom(row.AvgRating, row.ReviewCount),
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Title != list[j].Title {
			return list[i].Title < list[j].Title
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func summaryFrom(avg sql.NullFloat64, count int64) models.RatingSummary {
	s := models.RatingSummary{ReviewCount: count}
	if count > 0 && avg.Valid {
		v := avg.Float64
		s.AverageRating = &v
	}
	return s
}
