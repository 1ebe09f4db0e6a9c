package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/teacher-portal/internal/config"
	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.IsProduction() {
		logLevel = logger.Error
	} else {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables the portal reads and writes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.ClassEnrollment{},
		&models.StudentActivity{},
		&models.Skill{},
		&models.Assignment{},
		&models.AssignmentTarget{},
		&models.StudentPerformance{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
