package common

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"newshub/config"
)

// ConnectDb opens the MySQL database described by the configuration.
// Foreign key constraints stay enabled so that removing a user cascades
// to the owned history, favorite and search rows.
func ConnectDb(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql database: %w", err)
	}

	return db, nil
}
