package database

import (
	"gorm.io/gorm"

	"newshub/models"
)

// RunMigrations creates or updates the four application tables.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ReadingHistory{},
		&models.Favorite{},
		&models.SearchHistory{},
	)
}
