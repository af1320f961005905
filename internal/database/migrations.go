package database

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/yukikurage/bug-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddIndexes adds the composite indexes the bug list filters rely on.
// Single column indexes come from the model tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns []string
	}{
		// Filtered listings sorted by the default sort column
		{&models.Bug{}, "bugs", "idx_bugs_status_created", []string{"status_id", "created_at"}},
		{&models.Bug{}, "bugs", "idx_bugs_product_created", []string{"product_id", "created_at"}},

		// Screenshot lookups by bug and stored name
		{&models.Screenshot{}, "screenshots", "idx_screenshots_bug_filename", []string{"bug_id", "filename"}},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			slog.Debug("Index already exists, skipping", "index", idx.name)
			continue
		}

		args := []interface{}{clause.Column{Name: idx.name}, clause.Table{Name: idx.table}}
		for _, column := range idx.columns {
			args = append(args, clause.Column{Name: column})
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(idx.columns)), ", ")

		if err := db.Exec("CREATE INDEX ? ON ? ("+placeholders+")", args...).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("Created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase creates the tables and then the extra indexes
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
