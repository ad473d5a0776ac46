package models

// WatchDateLayout is the ISO layout watch dates are stored in.
const WatchDateLayout = "2006-01-02"

// Review is immutable once created; it lives as long as its movie.
type Review struct {
	ID         int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	MovieID    int64   `json:"movie_id" gorm:"not null;index"`
	Rating     int     `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	ReviewText *string `json:"review_text,omitempty"`
	WatchDate  *string `json:"watch_date,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

type AddReviewInput struct {
	MovieID    int64   `json:"movie_id" validate:"gt=0"`
	Rating     int     `json:"rating" validate:"min=1,max=5"`
	ReviewText *string `json:"review_text" validate:"omitempty,max=5000"`
	WatchDate  *string `json:"watch_date" validate:"omitempty,datetime=2006-01-02"`
}
