package models

type Movie struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string  `json:"title" gorm:"not null"`
	Director    *string `json:"director,omitempty"`
	ReleaseYear *int    `json:"release_year,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
	Genre       *string `json:"genre,omitempty"` // comma-delimited labels, see ParseGenres
	TrailerURL  *string `json:"trailer_url,omitempty"`
}

func (Movie) TableName() string {
	return "movies"
}

// Genres returns the set of trimmed, non-empty labels of the movie's genre field.
func (m Movie) Genres() []string {
	return UniqueGenres(m.Genre)
}

// CreateMovieInput is what a caller supplies to add a movie. Optional fields
// that are nil or blank are stored as NULL.
type CreateMovieInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Director    *string `json:"director" validate:"omitempty,max=255"`
	ReleaseYear *int    `json:"release_year" validate:"omitempty,gte=1800,lte=2100"`
	Genre       *string `json:"genre" validate:"omitempty,max=255"`
	PosterURL   *string `json:"poster_url" validate:"omitempty,max=2048,url"`
	TrailerURL  *string `json:"trailer_url" validate:"omitempty,max=2048,url"`
}
