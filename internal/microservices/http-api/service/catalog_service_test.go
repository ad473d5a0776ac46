package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"moviehub/internal/logging"
	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"
	"moviehub/internal/testinfra"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// countingCache records calls and serves whatever was last stored.
type countingCache struct {
	gen         int64
	entries     map[int]*models.SiteStats
	gets        int
	invalidated   int
	getErr        error
	invalidateErr error
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[int]*models.SiteStats{}}
}

func (c *countingCache) Get(_ context.Context, limit int) (*models.SiteStats, int64, error) {
	c.gets++
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	return c.entries[limit], c.gen, nil
}

func (c *countingCache) Set(_ context.Context, gen int64, limit int, stats *models.SiteStats) error {
	if gen == c.gen {
		c.entries[limit] = stats
	}
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	c.invalidated++
	c.gen++
	c.entries = map[int]*models.SiteStats{}
	return nil
}

type CatalogServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *repository.Store
	cache   *countingCache
	catalog CatalogService
}

func (s *CatalogServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = repository.NewStore(testinfra.NewSQLite(s.T()))
	s.cache = newCountingCache()
	s.catalog = NewCatalogService(s.store, s.cache, logging.Discard())
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) addMovie(title string, genre *string) int64 {
	id, err := s.catalog.AddMovie(s.ctx, models.CreateMovieInput{Title: title, Genre: genre})
	s.Require().NoError(err)
	return id
}

func (s *CatalogServiceSuite) addReview(movieID int64, rating int, watchDate *string) int64 {
	id, err := s.catalog.AddReview(s.ctx, models.AddReviewInput{MovieID: movieID, Rating: rating, WatchDate: watchDate})
	s.Require().NoError(err)
	return id
}

func (s *CatalogServiceSuite) TestAddMovie_NormalizesInput() {
	id, err := s.catalog.AddMovie(s.ctx, models.CreateMovieInput{
		Title:       "  Inception ",
		Director:    strPtr("Christopher Nolan"),
		ReleaseYear: intPtr(2010),
		Genre:       strPtr("SF, 액션"),
		PosterURL:   strPtr("   "),
	})
	s.Require().NoError(err)

	detail, err := s.catalog.MovieDetail(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Inception", detail.Movie.Title)
	s.Equal([]string{"SF", "액션"}, detail.Genres)
	s.Nil(detail.Movie.PosterURL)
	s.Equal(1, s.cache.invalidated)
}

func (s *CatalogServiceSuite) TestAddMovie_BlankTitleRejected() {
	_, err := s.catalog.AddMovie(s.ctx, models.CreateMovieInput{Title: "   "})

	var ve *shared.ValidationError
	s.Require().True(errors.As(err, &ve))
	s.Contains(ve.Fields, "title")

	list, err := s.catalog.ListMovies(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
	s.Zero(s.cache.invalidated)
}

func (s *CatalogServiceSuite) TestAddReview_VisibleExactlyOnce() {
	movieID := s.addMovie("Inception", nil)
	s.addReview(movieID, 4, nil)

	before, err := s.catalog.MovieSummary(s.ctx, movieID)
	s.Require().NoError(err)

	reviewID, err := s.catalog.AddReview(s.ctx, models.AddReviewInput{
		MovieID:    movieID,
		Rating:     5,
		ReviewText: strPtr("dreams within dreams"),
		WatchDate:  strPtr("2024-03-15"),
	})
	s.Require().NoError(err)

	reviews, err := s.catalog.ListReviews(s.ctx, movieID)
	s.Require().NoError(err)
	seen := 0
	for _, r := range reviews {
		if r.ID == reviewID {
			seen++
			s.Equal("dreams within dreams", *r.ReviewText)
		}
	}
	s.Equal(1, seen)

	after, err := s.catalog.MovieSummary(s.ctx, movieID)
	s.Require().NoError(err)
	s.Equal(before.ReviewCount+1, after.ReviewCount)
}

func (s *CatalogServiceSuite) TestAddReview_RatingOutOfRangeNotPersisted() {
	movieID := s.addMovie("Inception", nil)

	for _, rating := range []int{0, 6, -3} {
		_, err := s.catalog.AddReview(s.ctx, models.AddReviewInput{MovieID: movieID, Rating: rating})
		s.True(errors.Is(err, shared.ErrValidation), "rating %d", rating)
	}

	reviews, err := s.catalog.ListReviews(s.ctx, movieID)
	s.Require().NoError(err)
	s.Empty(reviews)
}

func (s *CatalogServiceSuite) TestAddReview_UnknownMovie() {
	_, err := s.catalog.AddReview(s.ctx, models.AddReviewInput{MovieID: 404, Rating: 3})

	var ve *shared.ValidationError
	s.Require().True(errors.As(err, &ve))
	s.Equal("movie does not exist", ve.Fields["movie_id"])
}

func (s *CatalogServiceSuite) TestAddReview_BadWatchDate() {
	movieID := s.addMovie("Inception", nil)
	_, err := s.catalog.AddReview(s.ctx, models.AddReviewInput{MovieID: movieID, Rating: 3, WatchDate: strPtr("03/15/2024")})

	var ve *shared.ValidationError
	s.Require().True(errors.As(err, &ve))
	s.Contains(ve.Fields, "watch_date")
}

func (s *CatalogServiceSuite) TestDeleteMovie_Cascades() {
	movieID := s.addMovie("Inception", nil)
	keep := s.addMovie("Memento", nil)
	for i := 0; i < 4; i++ {
		s.addReview(movieID, 3, nil)
	}
	s.addReview(keep, 5, nil)

	s.Require().NoError(s.catalog.DeleteMovie(s.ctx, movieID))

	reviews, err := s.catalog.ListReviews(s.ctx, movieID)
	s.Require().NoError(err)
	s.Empty(reviews)

	_, err = s.catalog.MovieDetail(s.ctx, movieID)
	s.True(errors.Is(err, shared.ErrNotFound))

	_, err = s.catalog.MovieSummary(s.ctx, movieID)
	s.True(errors.Is(err, shared.ErrNotFound))

	stats, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.EqualValues(1, stats.TotalMovies)
	s.EqualValues(1, stats.TotalReviews)
}

func (s *CatalogServiceSuite) TestDeleteMovie_UnknownIsNoop() {
	s.NoError(s.catalog.DeleteMovie(s.ctx, 12345))
	s.Zero(s.cache.invalidated)
}

func (s *CatalogServiceSuite) TestListMovies_ZeroReviewMovie() {
	reviewed := s.addMovie("Inception", nil)
	s.addReview(reviewed, 5, nil)
	s.addMovie("Unseen", nil)

	list, err := s.catalog.ListMovies(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)

	s.Equal("Unseen", list[1].Title)
	s.Nil(list[1].AverageRating)
	s.Zero(list[1].ReviewCount)
}

func (s *CatalogServiceSuite) TestInceptionScenario() {
	movieID := s.addMovie("Inception", strPtr("SF, 액션"))
	s.addReview(movieID, 5, nil)
	s.addReview(movieID, 3, nil)

	summary, err := s.catalog.MovieSummary(s.ctx, movieID)
	s.Require().NoError(err)
	s.Require().NotNil(summary.AverageRating)
	s.InDelta(4.0, *summary.AverageRating, 1e-9)
	s.EqualValues(2, summary.ReviewCount)

	stats, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.Contains(stats.TopGenres, models.GenreCount{Genre: "SF", ReviewCount: 2})
	s.Contains(stats.TopGenres, models.GenreCount{Genre: "액션", ReviewCount: 2})
}

func (s *CatalogServiceSuite) TestWatchYearScenario() {
	movieID := s.addMovie("Inception", nil)
	s.addReview(movieID, 4, strPtr("2024-03-15"))
	s.addReview(movieID, 2, nil)

	stats, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.Equal([]models.YearCount{{Year: "2024", Count: 1}}, stats.WatchYears)

	var total int64
	for _, y := range stats.WatchYears {
		total += y.Count
	}
	s.EqualValues(1, total)
}

func (s *CatalogServiceSuite) TestHistogramSumsToTotal() {
	a := s.addMovie("A", nil)
	b := s.addMovie("B", nil)
	for _, r := range []int{5, 5, 1, 3} {
		s.addReview(a, r, nil)
	}
	s.addReview(b, 5, nil)

	stats, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)

	s.Len(stats.RatingHistogram, 5)
	var sum int64
	for _, v := range models.RatingValues {
		sum += stats.RatingHistogram[v]
	}
	s.Equal(stats.TotalReviews, sum)
	s.EqualValues(3, stats.RatingHistogram[5])
	s.Zero(stats.RatingHistogram[2])
}

func (s *CatalogServiceSuite) TestMovieDetail_ReviewOrder() {
	movieID := s.addMovie("Inception", nil)
	undated := s.addReview(movieID, 3, nil)
	old := s.addReview(movieID, 4, strPtr("2020-01-01"))
	recent := s.addReview(movieID, 5, strPtr("2024-03-15"))

	detail, err := s.catalog.MovieDetail(s.ctx, movieID)
	s.Require().NoError(err)
	s.Require().Len(detail.Reviews, 3)
	s.Equal([]int64{recent, old, undated},
		[]int64{detail.Reviews[0].ID, detail.Reviews[1].ID, detail.Reviews[2].ID})
	s.EqualValues(3, detail.Summary.ReviewCount)
	s.Empty(detail.Genres)
}

func (s *CatalogServiceSuite) TestStats_UsesCacheUntilWrite() {
	movieID := s.addMovie("Inception", strPtr("SF"))
	s.addReview(movieID, 5, nil)

	first, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	second, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.Same(first, second)

	s.addReview(movieID, 1, nil)
	third, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.NotSame(first, third)
	s.EqualValues(2, third.TotalReviews)
}

func (s *CatalogServiceSuite) TestStats_CacheErrorFallsThrough() {
	s.cache.getErr = errors.New("redis down")
	stats, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.Zero(stats.TotalMovies)
}

func (s *CatalogServiceSuite) TestStats_FailedInvalidateBypassesCache() {
	movieID := s.addMovie("Inception", nil)
	s.addReview(movieID, 5, nil)

	cached, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.EqualValues(1, cached.TotalReviews)

	s.cache.invalidateErr = errors.New("redis down")
	s.addReview(movieID, 1, nil)

	fresh, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.EqualValues(2, fresh.TotalReviews)
	fresh, err = s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.EqualValues(2, fresh.TotalReviews)

	// redis is back: the next call invalidates and caches again
	s.cache.invalidateErr = nil
	recovered, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.EqualValues(2, recovered.TotalReviews)
	again, err := s.catalog.Stats(s.ctx, 5)
	s.Require().NoError(err)
	s.Same(recovered, again)
}

func (s *CatalogServiceSuite) TestMovieService_GetMovie() {
	movies := NewMovieService(s.store, logging.Discard())
	movieID := s.addMovie("Inception", strPtr("SF"))

	movie, err := movies.GetMovie(s.ctx, movieID)
	s.Require().NoError(err)
	s.Equal("Inception", movie.Title)
	s.Require().NotNil(movie.Genre)
	s.Equal("SF", *movie.Genre)

	_, err = movies.GetMovie(s.ctx, movieID+1)
	s.True(errors.Is(err, shared.ErrNotFound))

	s.Require().NoError(s.catalog.DeleteMovie(s.ctx, movieID))
	_, err = movies.GetMovie(s.ctx, movieID)
	s.True(errors.Is(err, shared.ErrNotFound))
}

func (s *CatalogServiceSuite) TestImportCatalog() {
	seed := models.CatalogSeed{Movies: []models.SeedMovie{
		{
			Title:  "Inception",
			Genres: []string{"SF", "액션"},
			Reviews: []models.SeedReview{
				{Rating: 5, WatchDate: strPtr("2024-03-15")},
				{Rating: 3},
			},
		},
		{Title: "Memento", Genre: strPtr("Thriller")},
	}}

	result, err := s.catalog.ImportCatalog(s.ctx, seed)
	s.Require().NoError(err)
	s.Equal(&models.ImportResult{MoviesImported: 2, ReviewsImported: 2}, result)

	list, err := s.catalog.ListMovies(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("SF, 액션", *list[0].Genre)
	s.EqualValues(2, list[0].ReviewCount)
}

func (s *CatalogServiceSuite) TestImportCatalog_AllOrNothing() {
	seed := models.CatalogSeed{Movies: []models.SeedMovie{
		{Title: "Inception", Reviews: []models.SeedReview{{Rating: 5}}},
		{Title: "Memento", Reviews: []models.SeedReview{{Rating: 4}, {Rating: 7}}},
	}}

	_, err := s.catalog.ImportCatalog(s.ctx, seed)

	var ve *shared.ValidationError
	s.Require().True(errors.As(err, &ve))
	s.Contains(ve.Fields, "movies[1].reviews[1].rating")

	list, err := s.catalog.ListMovies(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
	s.Zero(s.cache.invalidated)
}

func (s *CatalogServiceSuite) TestPing() {
	s.NoError(s.catalog.Ping(s.ctx))
}

func TestRankGenres(t *testing.T) {
	rows := []repository.MovieGenreCount{
		{MovieID: 1, Genre: "SF, 액션", ReviewCount: 2},
		{MovieID: 2, Genre: "Drama,SF", ReviewCount: 3},
		{MovieID: 3, Genre: " , Comedy ,Comedy", ReviewCount: 1},
		{MovieID: 4, Genre: "Animation", ReviewCount: 2},
	}

	got := rankGenres(rows, 10)
	assert.Equal(t, []models.GenreCount{
		{Genre: "SF", ReviewCount: 5},
		{Genre: "Drama", ReviewCount: 3},
		{Genre: "Animation", ReviewCount: 2},
		{Genre: "액션", ReviewCount: 2},
		{Genre: "Comedy", ReviewCount: 1},
	}, got)

	assert.Len(t, rankGenres(rows, 2), 2)
	assert.Empty(t, rankGenres(rows, 0))
	assert.NotNil(t, rankGenres(rows, -1))
	assert.Empty(t, rankGenres(nil, 5))
}

func TestStatsService_TopGenresLimit(t *testing.T) {
	store := repository.NewStore(testinfra.NewSQLite(t))
	stats := NewStatsService(store)
	ctx := context.Background()

	got, err := stats.TopGenresByReviewCount(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	hist, err := stats.RatingHistogram(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, hist)

	years, err := stats.ReviewsPerWatchYear(ctx)
	require.NoError(t, err)
	assert.Empty(t, years)
}
