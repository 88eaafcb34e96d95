package database

import (
	"fmt"

	"loadlink_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every model, creating the uuid extension
// the primary keys depend on.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Load{},
		&models.LoadRequest{},
		&models.ServiceArea{},
		&models.AlertPreference{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
