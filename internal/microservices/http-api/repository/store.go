package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"moviehub/internal/shared"
)

// Store groups the repositories that share one gorm handle, which is either
// the pooled DB or an open transaction.
type Store struct {
	db      *gorm.DB
	Movies  *MovieRepo
	Reviews *ReviewRepo
	Stats   *StatsRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		Movies:  NewMovieRepo(db),
		Reviews: NewReviewRepo(db),
		Stats:   NewStatsRepo(db),
	}
}

// Transaction runs fn as one unit of work. fn's error rolls everything back
// and is returned unchanged; begin/commit failures surface as storage errors.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, shared.ErrValidation) || errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrStorage) {
		return err
	}
	return shared.NewStorageError("transaction", err)
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return shared.NewStorageError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return shared.NewStorageError("ping", err)
	}
	return nil
}
