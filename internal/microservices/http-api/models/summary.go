package models

// RatingSummary is the per-movie aggregate. AverageRating is nil when the
// movie has no reviews; it is never rounded here.
type RatingSummary struct {
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

// MovieSummary is one row of the home page list.
type MovieSummary struct {
	Movie
	RatingSummary
}

// MovieDetail is a consistent snapshot of a movie and its full review set.
type MovieDetail struct {
	Movie   Movie         `json:"movie"`
	Genres  []string      `json:"genres"`
	Summary RatingSummary `json:"summary"`
	Reviews []Review      `json:"reviews"`
}

type GenreCount struct {
	Genre       string `json:"genre"`
	ReviewCount int64  `json:"review_count"`
}

type YearCount struct {
	Year  string `json:"year" gorm:"column:watch_year"`
	Count int64  `json:"count"`
}

// RatingValues are the only ratings a review may carry.
var RatingValues = []int{1, 2, 3, 4, 5}

// SiteStats bundles the site-wide aggregations shown on the stats page.
type SiteStats struct {
	TotalMovies     int64         `json:"total_movies"`
	TotalReviews    int64         `json:"total_reviews"`
	RatingHistogram map[int]int64 `json:"rating_histogram"`
	TopGenres       []GenreCount  `json:"top_genres"`
	WatchYears      []YearCount   `json:"watch_years"`
}
