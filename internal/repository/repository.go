package repository

import (
	"context"

	"github.com/yukikurage/bug-tracker-api/internal/models"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *models.Product) error

	// FindByID finds a product by ID
	FindByID(ctx context.Context, id string) (*models.Product, error)

	// FindByName finds a product by its unique name
	FindByName(ctx context.Context, name string) (*models.Product, error)

	// List returns products ordered by name, optionally only the active ones
	List(ctx context.Context, activeOnly bool) ([]models.Product, error)

	// Update saves every column of the product
	Update(ctx context.Context, product *models.Product) error

	// Delete removes the product unless bugs reference it. It returns the
	// number of referencing bugs; when non-zero nothing was deleted.
	Delete(ctx context.Context, id string) (int64, error)
}

// StatusRepository defines the interface for status data access
type StatusRepository interface {
	// Create creates a new status
	Create(ctx context.Context, status *models.Status) error

	// FindByID finds a status by ID
	FindByID(ctx context.Context, id string) (*models.Status, error)

	// FindByName finds a status by its unique name
	FindByName(ctx context.Context, name string) (*models.Status, error)

	// List returns statuses by order, then created_at, then id
	List(ctx context.Context) ([]models.Status, error)

	// FindLowest returns the first status of List
	FindLowest(ctx context.Context) (*models.Status, error)

	// MaxOrder returns the highest order and whether any status exists
	MaxOrder(ctx context.Context) (int, bool, error)

	// Update saves every column of the status
	Update(ctx context.Context, status *models.Status) error

	// Delete removes the status unless bugs reference it. It returns the
	// number of referencing bugs; when non-zero nothing was deleted.
	Delete(ctx context.Context, id string) (int64, error)

	// Reorder applies every order change atomically. Unknown ids are ignored.
	Reorder(ctx context.Context, orders []StatusOrder) error
}

// StatusOrder assigns a new order to one status
type StatusOrder struct {
	ID    string
	Order int
}

// BugRepository defines the interface for bug and screenshot data access
type BugRepository interface {
	// Create creates a new bug
	Create(ctx context.Context, bug *models.Bug) error

	// FindByID finds a bug by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Bug, error)

	// List retrieves detailed bugs with filtering, sorting and pagination
	List(ctx context.Context, filter BugFilter) ([]models.Bug, int64, error)

	// Update saves the bug's own columns and refreshes updated_at
	Update(ctx context.Context, bug *models.Bug) error

	// Delete removes the bug and its screenshot rows in one transaction.
	// cleanup runs last inside the transaction; an error rolls the rows back.
	Delete(ctx context.Context, id string, cleanup func(ctx context.Context) error) error

	// CreateScreenshots inserts screenshot rows in one batch
	CreateScreenshots(ctx context.Context, screenshots []models.Screenshot) error

	// FindScreenshot finds a screenshot by bug and stored filename
	FindScreenshot(ctx context.Context, bugID, filename string) (*models.Screenshot, error)
}

// BugFilter holds filtering options for listing bugs
type BugFilter struct {
	StatusID  *string
	ProductID *string
	Severity  *models.Severity
	SortBy    string
	SortOrder string
	Skip      int
	Limit     int
}
