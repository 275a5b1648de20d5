// Package database opens the PostgreSQL connection and applies the
// embedded schema migrations on startup.
package database

import (
	"embed"
	"fmt"

	"github.com/nosregor/learning-platform/internal/models"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

func InitDB(config models.DatabaseConfiguration) *gorm.DB {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		config.Host, config.User, config.Password, config.Name, config.Port, sslMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	Migrate(db)
	return db
}

// Migrate applies pending migrations. Failure is fatal: the services
// assume the schema is current.
func Migrate(db *gorm.DB) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		zap.L().Fatal("Failed to set migration dialect", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("Failed to unwrap database connection", zap.Error(err))
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		zap.L().Fatal("Failed to apply migrations", zap.Error(err))
	}
	zap.L().Info("Database migrations applied")
}
