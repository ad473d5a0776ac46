// Package testinfra provides throwaway databases for package tests.
package testinfra

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"moviehub/database"
)

// NewSQLite opens a file-backed SQLite database under t.TempDir with the
// schema applied. It is closed when the test ends.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "moviehub_test.db")
	db, err := database.Open(database.DriverSQLite, path, false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.EnsureSchema(context.Background(), db, database.DriverSQLite))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
