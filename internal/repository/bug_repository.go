package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/bug-tracker-api/internal/database"
	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBugSortColumn is used when the requested sort field is not sortable.
const DefaultBugSortColumn = "created_at"

// bugSortColumns maps accepted sort_by values to bug columns.
var bugSortColumns = map[string]string{
	"id":             "id",
	"product_id":     "product_id",
	"summary":        "summary",
	"description":    "description",
	"severity":       "severity",
	"status_id":      "status_id",
	"reporter_name":  "reporter_name",
	"reporter_email": "reporter_email",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

// BugSortColumn resolves sort_by, falling back to created_at.
func BugSortColumn(sortBy string) string {
	if column, ok := bugSortColumns[sortBy]; ok {
		return column
	}
	return DefaultBugSortColumn
}

// SortDescending reports whether sort_order asks for descending order.
// Empty means descending; anything other than "desc" is ascending.
func SortDescending(sortOrder string) bool {
	order := strings.ToLower(strings.TrimSpace(sortOrder))
	return order == "" || order == "desc"
}

// GormBugRepository is a GORM implementation of BugRepository
type GormBugRepository struct {
	db *gorm.DB
}

// NewBugRepository creates a new BugRepository
func NewBugRepository(db *gorm.DB) BugRepository {
	return &GormBugRepository{db: db}
}

func (r *GormBugRepository) Create(ctx context.Context, bug *models.Bug) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(bug).Error
}

// FindByID finds a bug by ID with optional preloading
func (r *GormBugRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.Bug, error) {
	var bug models.Bug
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		if p == "Screenshots" {
			query = query.Preload(p, screenshotsByUpload)
			continue
		}
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&bug).Error; err != nil {
		return nil, err
	}

	return &bug, nil
}

// List retrieves bugs with filtering, sorting and pagination
func (r *GormBugRepository) List(ctx context.Context, filter BugFilter) ([]models.Bug, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Bug{})

	// Apply filters
	if filter.StatusID != nil {
		query = query.Where("bugs.status_id = ?", *filter.StatusID)
	}
	if filter.ProductID != nil {
		query = query.Where("bugs.product_id = ?", *filter.ProductID)
	}
	if filter.Severity != nil {
		query = query.Where("bugs.severity = ?", *filter.Severity)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := BugSortColumn(filter.SortBy)
	desc := SortDescending(filter.SortOrder)
	orderBy := clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: "bugs", Name: column}, Desc: desc},
	}}
	if column != "id" {
		orderBy.Columns = append(orderBy.Columns, clause.OrderByColumn{
			Column: clause.Column{Table: "bugs", Name: "id"}, Desc: desc,
		})
	}

	page := utils.NormalizePagination(filter.Skip, filter.Limit)

	var bugs []models.Bug
	err := query.
		Order(orderBy).
		Scopes(database.Paginate(page)).
		Preload("Product").
		Preload("Status").
		Preload("Screenshots", screenshotsByUpload).
		Find(&bugs).Error
	if err != nil {
		return nil, 0, err
	}

	return bugs, total, nil
}

// Update saves the bug without touching preloaded associations
func (r *GormBugRepository) Update(ctx context.Context, bug *models.Bug) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(bug).Error
}

// Delete removes screenshot rows and the bug, then runs cleanup
func (r *GormBugRepository) Delete(ctx context.Context, id string, cleanup func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bug_id = ?", id).Delete(&models.Screenshot{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Bug{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if cleanup != nil {
			return cleanup(ctx)
		}
		return nil
	})
}

func (r *GormBugRepository) CreateScreenshots(ctx context.Context, screenshots []models.Screenshot) error {
	if len(screenshots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&screenshots).Error
}

func (r *GormBugRepository) FindScreenshot(ctx context.Context, bugID, filename string) (*models.Screenshot, error) {
	var screenshot models.Screenshot
	err := r.db.WithContext(ctx).
		Where("bug_id = ? AND filename = ?", bugID, filename).
		First(&screenshot).Error
	if err != nil {
		return nil, err
	}
	return &screenshot, nil
}

func screenshotsByUpload(db *gorm.DB) *gorm.DB {
	return db.Order("uploaded_at ASC").Order("id ASC")
}
