package repository

import (
	"context"

	"github.com/yukikurage/bug-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormProductRepository is a GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id string) (int64, error) {
	var referencing int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Bug{}).Where("product_id = ?", id).Count(&referencing).Error; err != nil {
			return err
		}
		if referencing > 0 {
			return nil
		}

		result := tx.Where("id = ?", id).Delete(&models.Product{})
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
