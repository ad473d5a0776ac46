package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"moviehub/database"
)

func openRaw(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "schema.db"), false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func countObjects(t *testing.T, db *gorm.DB, kind, name string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Raw(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?", kind, name,
	).Scan(&n).Error)
	return n
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := openRaw(t)
	ctx := context.Background()

	require.NoError(t, database.EnsureSchema(ctx, db, database.DriverSQLite))
	require.NoError(t, database.EnsureSchema(ctx, db, database.DriverSQLite))

	assert.EqualValues(t, 1, countObjects(t, db, "table", "movies"))
	assert.EqualValues(t, 1, countObjects(t, db, "table", "reviews"))
	assert.EqualValues(t, 1, countObjects(t, db, "index", "idx_reviews_movie_id"))
}

func TestEnsureSchema_UnknownDriver(t *testing.T) {
	db := openRaw(t)
	err := database.EnsureSchema(context.Background(), db, "oracle")
	assert.Error(t, err)
}

func TestSchema_EnforcesConstraints(t *testing.T) {
	db := openRaw(t)
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.DriverSQLite))

	require.NoError(t, db.Exec("INSERT INTO movies (title) VALUES (?)", "Inception").Error)
	var movieID int64
	require.NoError(t, db.Raw("SELECT id FROM movies WHERE title = ?", "Inception").Scan(&movieID).Error)

	t.Run("rating check", func(t *testing.T) {
		err := db.Exec("INSERT INTO reviews (movie_id, rating) VALUES (?, ?)", movieID, 6).Error
		assert.Error(t, err)
	})

	t.Run("blank title check", func(t *testing.T) {
		err := db.Exec("INSERT INTO movies (title) VALUES (?)", "   ").Error
		assert.Error(t, err)
	})

	t.Run("foreign key", func(t *testing.T) {
		err := db.Exec("INSERT INTO reviews (movie_id, rating) VALUES (?, ?)", movieID+100, 3).Error
		assert.Error(t, err)
	})

	t.Run("cascade delete", func(t *testing.T) {
		require.NoError(t, db.Exec("INSERT INTO reviews (movie_id, rating) VALUES (?, 5), (?, 3)", movieID, movieID).Error)
		require.NoError(t, db.Exec("DELETE FROM movies WHERE id = ?", movieID).Error)

		var left int64
		require.NoError(t, db.Raw("SELECT COUNT(*) FROM reviews").Scan(&left).Error)
		assert.Zero(t, left)
	})
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "movie.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", database.SQLiteDSN("movie.db"))
	assert.Equal(t,
		"file:movie.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		database.SQLiteDSN("file:movie.db?mode=rwc"))
	assert.Equal(t,
		"movie.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(1000)",
		database.SQLiteDSN("movie.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(1000)"))
}
