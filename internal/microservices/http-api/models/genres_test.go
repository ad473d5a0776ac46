package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestParseGenres(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  []string
	}{
		{"nil field", nil, []string{}},
		{"blank field", strPtr("   "), []string{}},
		{"single", strPtr("Drama"), []string{"Drama"}},
		{"trims and skips empties", strPtr(" SF, 액션 ,, "), []string{"SF", "액션"}},
		{"keeps duplicates", strPtr("SF,SF"), []string{"SF", "SF"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGenres(tt.input))
		})
	}
}

func TestMovieGenres_IsASet(t *testing.T) {
	m := Movie{Genre: strPtr("SF, Action, SF , Action")}
	assert.Equal(t, []string{"SF", "Action"}, m.Genres())
}

func TestJoinGenres(t *testing.T) {
	assert.Nil(t, JoinGenres(nil))
	assert.Nil(t, JoinGenres([]string{" ", ""}))
	assert.Equal(t, "SF, 액션", *JoinGenres([]string{" SF", "액션 "}))
	assert.Equal(t, []string{"SF", "액션"}, ParseGenres(JoinGenres([]string{"SF", "액션"})))
}

func TestSeedMovie_ToInput_PrefersGenreString(t *testing.T) {
	withString := SeedMovie{Title: "Inception", Genre: strPtr("SF"), Genres: []string{"Drama"}}
	assert.Equal(t, "SF", *withString.ToInput().Genre)

	withList := SeedMovie{Title: "Inception", Genres: []string{"SF", "액션"}}
	assert.Equal(t, "SF, 액션", *withList.ToInput().Genre)
}
