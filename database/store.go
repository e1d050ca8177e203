package database

import (
	"context"
	"fmt"

	"viemind/storage"

	"gorm.io/gorm"
)

// Store implements storage.Storage on top of gorm
type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for wiring and tests
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
