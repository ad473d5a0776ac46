package dto

import (
	"fmt"

	"moviehub/internal/microservices/http-api/models"
)

// CreateMovieRequest is the body of POST /api/movies. Genres may be sent as
// the comma-delimited genre string or as a list.
type CreateMovieRequest struct {
	Title       string   `json:"title"`
	Director    *string  `json:"director"`
	ReleaseYear *int     `json:"release_year"`
	Genre       *string  `json:"genre"`
	Genres      []string `json:"genres"`
	PosterURL   *string  `json:"poster_url"`
	TrailerURL  *string  `json:"trailer_url"`
}

func (r CreateMovieRequest) ToInput() models.CreateMovieInput {
	genre := r.Genre
	if genre == nil && len(r.Genres) > 0 {
		genre = models.JoinGenres(r.Genres)
	}
	return models.CreateMovieInput{
		Title:       r.Title,
		Director:    r.Director,
		ReleaseYear: r.ReleaseYear,
		Genre:       genre,
		PosterURL:   r.PosterURL,
		TrailerURL:  r.TrailerURL,
	}
}

// AddReviewRequest is the body of POST /api/movies/:movie_id/reviews; the
// movie comes from the path. Range checks happen in the service.
type AddReviewRequest struct {
	Rating     int     `json:"rating"`
	ReviewText *string `json:"review_text"`
	WatchDate  *string `json:"watch_date"`
}

func (r AddReviewRequest) ToInput(movieID int64) models.AddReviewInput {
	return models.AddReviewInput{
		MovieID:    movieID,
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		WatchDate:  r.WatchDate,
	}
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type SummaryResponse struct {
	AverageRating *float64 `json:"average_rating"`
	// AverageLabel is the average rounded to one decimal, empty without reviews
	AverageLabel string `json:"average_label"`
	ReviewCount  int64  `json:"review_count"`
}

func FromRatingSummary(s models.RatingSummary) SummaryResponse {
	return SummaryResponse{
		AverageRating: s.AverageRating,
		AverageLabel:  FormatAverage(s.AverageRating),
		ReviewCount:   s.ReviewCount,
	}
}

// FormatAverage renders an average the way the catalog pages show it.
func FormatAverage(avg *float64) string {
	if avg == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *avg)
}

type MovieListItem struct {
	models.Movie
	Genres  []string        `json:"genres"`
	Summary SummaryResponse `json:"summary"`
}

type MovieListResponse struct {
	Data  []MovieListItem `json:"data"`
	Total int             `json:"total"`
}

func FromMovieSummaries(list []models.MovieSummary) MovieListResponse {
	items := make([]MovieListItem, 0, len(list))
	for _, m := range list {
		items = append(items, MovieListItem{
			Movie:   m.Movie,
			Genres:  m.Movie.Genres(),
			Summary: FromRatingSummary(m.RatingSummary),
		})
	}
	return MovieListResponse{Data: items, Total: len(items)}
}

type MovieDetailResponse struct {
	Movie   models.Movie    `json:"movie"`
	Genres  []string        `json:"genres"`
	Summary SummaryResponse `json:"summary"`
	Reviews []models.Review `json:"reviews"`
}

func FromMovieDetail(d *models.MovieDetail) MovieDetailResponse {
	return MovieDetailResponse{
		Movie:   d.Movie,
		Genres:  d.Genres,
		Summary: FromRatingSummary(d.Summary),
		Reviews: d.Reviews,
	}
}

type ReviewListResponse struct {
	Data  []models.Review `json:"data"`
	Total int             `json:"total"`
}

type HistogramBucket struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

type GenreShare struct {
	Genre       string  `json:"genre"`
	ReviewCount int64   `json:"review_count"`
	Share       float64 `json:"share"` // percent of the listed genres' total
}

type StatsResponse struct {
	TotalMovies     int64              `json:"total_movies"`
	TotalReviews    int64              `json:"total_reviews"`
	RatingHistogram []HistogramBucket  `json:"rating_histogram"`
	TopGenres       []GenreShare       `json:"top_genres"`
	WatchYears      []models.YearCount `json:"watch_years"`
}

// FromSiteStats flattens the histogram into buckets 1..5 and adds the
// percentage each listed genre contributes.
func FromSiteStats(s *models.SiteStats) StatsResponse {
	buckets := make([]HistogramBucket, 0, len(s.RatingHistogram))
	for _, v := range models.RatingValues {
		buckets = append(buckets, HistogramBucket{Rating: v, Count: s.RatingHistogram[v]})
	}

	var total int64
	for _, g := range s.TopGenres {
		total += g.ReviewCount
	}
	genres := make([]GenreShare, 0, len(s.TopGenres))
	for _, g := range s.TopGenres {
		share := 0.0
		if total > 0 {
			share = float64(g.ReviewCount) * 100 / float64(total)
		}
		genres = append(genres, GenreShare{Genre: g.Genre, ReviewCount: g.ReviewCount, Share: share})
	}

	years := s.WatchYears
	if years == nil {
		years = []models.YearCount{}
	}

	return StatsResponse{
		TotalMovies:     s.TotalMovies,
		TotalReviews:    s.TotalReviews,
		RatingHistogram: buckets,
		TopGenres:       genres,
		WatchYears:      years,
	}
}
