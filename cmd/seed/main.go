package main

import (
	"log/slog"
	"os"

	"github.com/yukikurage/bug-tracker-api/internal/config"
	"github.com/yukikurage/bug-tracker-api/internal/database"
)

// Seeds the default statuses and sample products into empty tables.
func main() {
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := database.Seed(database.GetDB()); err != nil {
		slog.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}

	slog.Info("Database seeded")
}
