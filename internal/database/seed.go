package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/bug-tracker-api/internal/models"
	"gorm.io/gorm"
)

// DefaultStatuses is the initial workflow, lowest order first.
var DefaultStatuses = []models.Status{
	{Name: "New", Color: "#3b82f6", Order: 0},
	{Name: "In Progress", Color: "#eab308", Order: 1},
	{Name: "Resolved", Color: "#22c55e", Order: 2},
	{Name: "Closed", Color: "#6b7280", Order: 3},
	{Name: "Won't Fix", Color: "#ef4444", Order: 4},
}

// DefaultProducts is the initial catalog.
var DefaultProducts = []models.Product{
	{Name: "Calorie Tracker", Description: strPtr("Track daily calories and macros"), Active: true},
	{Name: "Wheel app", Description: strPtr("Options wheel trading tracker"), Active: true},
	{Name: "Bug tracker", Description: strPtr("This bug tracking system"), Active: true},
}

// Seed inserts the default statuses and products. Each table is only seeded when empty.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var statusCount int64
		if err := tx.Model(&models.Status{}).Count(&statusCount).Error; err != nil {
			return fmt.Errorf("failed to count statuses: %w", err)
		}
		if statusCount == 0 {
			statuses := make([]models.Status, len(DefaultStatuses))
			copy(statuses, DefaultStatuses)
			if err := tx.Create(&statuses).Error; err != nil {
				return fmt.Errorf("failed to seed statuses: %w", err)
			}
			slog.Info("Seeded statuses", "count", len(statuses))
		}

		var productCount int64
		if err := tx.Model(&models.Product{}).Count(&productCount).Error; err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if productCount == 0 {
			products := make([]models.Product, len(DefaultProducts))
			copy(products, DefaultProducts)
			if err := tx.Create(&products).Error; err != nil {
				return fmt.Errorf("failed to seed products: %w", err)
			}
			slog.Info("Seeded products", "count", len(products))
		}

		return nil
	})
}

func strPtr(s string) *string {
	return &s
}
