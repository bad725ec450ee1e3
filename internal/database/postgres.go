package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladimiradmaev/spendeats/internal/config"
	"github.com/vladimiradmaev/spendeats/internal/database/migrations"
	"github.com/vladimiradmaev/spendeats/internal/logger"
)

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed",
		"host", cfg.Host,
		"database", cfg.DBName)
	return db, nil
}

// Migrate creates the tables and then applies the embedded SQL migrations, which
// may reference them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	registry := migrations.NewRegistry()
	if err := registry.LoadSQL(migrations.SQLFiles, migrations.SQLDir); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := registry.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
