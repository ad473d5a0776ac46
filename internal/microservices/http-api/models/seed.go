package models

// CatalogSeed is the JSON document accepted by the catalog import.
type CatalogSeed struct {
	Movies []SeedMovie `json:"movies"`
}

// SeedMovie is a movie plus the reviews to attach to it. Genres may be given
// either as the comma-delimited Genre string or as a Genres list.
type SeedMovie struct {
	Title       string       `json:"title"`
	Director    *string      `json:"director,omitempty"`
	ReleaseYear *int         `json:"release_year,omitempty"`
	Genre       *string      `json:"genre,omitempty"`
	Genres      []string     `json:"genres,omitempty"`
	PosterURL   *string      `json:"poster_url,omitempty"`
	TrailerURL  *string      `json:"trailer_url,omitempty"`
	Reviews     []SeedReview `json:"reviews,omitempty"`
}

type SeedReview struct {
	Rating     int     `json:"rating"`
	ReviewText *string `json:"review_text,omitempty"`
	WatchDate  *string `json:"watch_date,omitempty"`
}

func (s SeedMovie) ToInput() CreateMovieInput {
	genre := s.Genre
	if genre == nil && len(s.Genres) > 0 {
		genre = JoinGenres(s.Genres)
	}
	return CreateMovieInput{
		Title:       s.Title,
		Director:    s.Director,
		ReleaseYear: s.ReleaseYear,
		Genre:       genre,
		PosterURL:   s.PosterURL,
		TrailerURL:  s.TrailerURL,
	}
}

func (s SeedReview) ToInput(movieID int64) AddReviewInput {
	return AddReviewInput{
		MovieID:    movieID,
		Rating:     s.Rating,
		ReviewText: s.ReviewText,
		WatchDate:  s.WatchDate,
	}
}

type ImportResult struct {
	MoviesImported  int `json:"movies_imported"`
	ReviewsImported int `json:"reviews_imported"`
}
