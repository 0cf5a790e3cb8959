package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/psychiclamb/poster-tracker/internal/models"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Topic{},
	}
}

// AutoMigrate creates or updates all tracker tables.
func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
