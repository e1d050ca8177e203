package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

func sqlitePath(dsn string) (string, bool) {
	if !strings.HasPrefix(dsn, sqliteScheme) {
		return "", false
	}
	return strings.TrimPrefix(dsn, sqliteScheme), true
}

// OpenSQLite opens an embedded SQLite database. SQLite allows a single writer,
// so the pool is limited to one connection.
func OpenSQLite(path string, gLogger logger.Interface) (*gorm.DB, error) {
	if gLogger == nil {
		gLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
