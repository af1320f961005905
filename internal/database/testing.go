package database

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenInMemory opens a migrated private sqlite database for tests and tools.
func OpenInMemory() (*gorm.DB, error) {
	// A named in-memory database per call keeps parallel tests isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := MigrateDatabase(db); err != nil {
		return nil, err
	}
	return db, nil
}
