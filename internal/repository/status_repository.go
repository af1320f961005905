package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/bug-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStatusRepository is a GORM implementation of StatusRepository
type GormStatusRepository struct {
	db *gorm.DB
}

// NewStatusRepository creates a new StatusRepository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &GormStatusRepository{db: db}
}

// orderColumn is quoted by the dialect; "order" is a reserved word.
var orderColumn = clause.Column{Name: "order"}

// byOrder sorts by order, then created_at, then id so ties are deterministic.
func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: orderColumn},
		{Column: clause.Column{Name: "created_at"}},
		{Column: clause.Column{Name: "id"}},
	}})
}

func (r *GormStatusRepository) Create(ctx context.Context, status *models.Status) error {
	return r.db.WithContext(ctx).Create(status).Error
}

func (r *GormStatusRepository) FindByID(ctx context.Context, id string) (*models.Status, error) {
	var status models.Status
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *GormStatusRepository) FindByName(ctx context.Context, name string) (*models.Status, error) {
	var status models.Status
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *GormStatusRepository) List(ctx context.Context) ([]models.Status, error) {
	var statuses []models.Status
	if err := r.db.WithContext(ctx).Scopes(byOrder).Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *GormStatusRepository) FindLowest(ctx context.Context) (*models.Status, error) {
	var status models.Status
	// Take keeps the scope's ordering; First would append a primary key sort.
	if err := r.db.WithContext(ctx).Scopes(byOrder).Take(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *GormStatusRepository) MaxOrder(ctx context.Context) (int, bool, error) {
	var status models.Status
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: orderColumn, Desc: true}).
		Take(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return status.Order, true, nil
}

func (r *GormStatusRepository) Update(ctx context.Context, status *models.Status) error {
	return r.db.WithContext(ctx).Save(status).Error
}

func (r *GormStatusRepository) Delete(ctx context.Context, id string) (int64, error) {
	var referencing int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Bug{}).Where("status_id = ?", id).Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return nil
		}

		result := tx.Where("id = ?", id).Delete(&models.Status{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return referencing, err
}

func (r *GormStatusRepository) Reorder(ctx context.Context, orders []StatusOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			// RowsAffected of zero means an unknown id, which is skipped.
			if err := tx.Model(&models.Status{}).Where("id = ?", o.ID).Update("order", o.Order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
