package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"moviehub/internal/shared"
)

// PostgreSQL SQLSTATE codes for constraint violations
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps gorm and driver errors onto the shared taxonomy.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, shared.ErrValidation) || errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrStorage) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFoundf("%s", op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return shared.NewValidationError("movie_id", "movie does not exist")
		case pgCheckViolation:
			return checkViolation(pgErr.ConstraintName)
		}
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.NewValidationError("movie_id", "movie does not exist")
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return checkViolation("")
	}

	// SQLite reports constraint failures only through the message text
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return shared.NewValidationError("movie_id", "movie does not exist")
	case strings.Contains(msg, "CHECK constraint failed"):
		return checkViolation(msg)
	}

	return shared.NewStorageError(op, err)
}

func checkViolation(constraint string) error {
	if strings.Contains(constraint, "title") {
		return shared.NewValidationError("title", "must be provided")
	}
	return shared.NewValidationError("rating", "must be between 1 and 5")
}
