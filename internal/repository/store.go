package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store groups the repositories over one database handle.
type Store struct {
	db *gorm.DB

	Users        *UserRepository
	Tasks        *TaskRepository
	Categories   *CategoryRepository
	Achievements *AchievementRepository
	Settings     *SettingsRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Tasks:        NewTaskRepository(db),
		Categories:   NewCategoryRepository(db),
		Achievements: NewAchievementRepository(db),
		Settings:     NewSettingsRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Every read and write inside fn must go through tx. Any error returned by fn
// rolls the transaction back and is returned unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		fnErr = fn(NewStore(db))
		return fnErr
	})
	if err != nil && !errors.Is(err, fnErr) {
		return wrap("transaction", err)
	}
	return err
}

// DB exposes the underlying handle for migrations and tooling.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrap("close", err)
	}
	return sqlDB.Close()
}
