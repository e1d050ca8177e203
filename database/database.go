package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"viemind/config"
	"viemind/models"
	"viemind/storage"
	"viemind/utils"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AdminUsername is the username given to the seeded administrator account
var AdminUsername = "admin"

// Open connects to PostgreSQL with a quiet gorm logger and pool limits.
// A sqlite:// URL opens an embedded database instead, for local development.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold:             1500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	if path, ok := sqlitePath(cfg.DatabaseURL); ok {
		return OpenSQLite(path, gLogger)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// InitDB opens the database, applies the schema and populates default values if needed
func InitDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if _, embedded := sqlitePath(cfg.DatabaseURL); cfg.MigrationsEnabled && !embedded {
		err = RunMigrations(cfg.DatabaseURL)
	} else {
		err = AutoMigrate(db)
	}
	if err != nil {
		return nil, err
	}

	if err := Populate(ctx, db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the tables from the models
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Competition{},
		&models.Participant{},
		&models.Submission{},
		&models.Session{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Populate creates the administrator account when one is configured and missing
func Populate(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	store := NewStore(db)
	if _, err := store.GetUserByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	password, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Email:      cfg.AdminEmail,
		Username:   AdminUsername,
		FullName:   "Administrator",
		Password:   password,
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	if err := store.CreateUser(ctx, &admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Println("Default admin user created")
	return nil
}
