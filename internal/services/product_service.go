package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/bug-tracker-api/internal/dto"
	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// ProductService handles product catalog business logic
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// CreateProductInput represents input for creating a product
type CreateProductInput struct {
	Name        string
	Description *string
	Active      *bool
}

// UpdateProductInput represents a partial product update
type UpdateProductInput struct {
	Name        dto.Optional[string]
	Description dto.Optional[string]
	Active      dto.Optional[bool]
}

// ListProducts returns products ordered by name
func (s *ProductService) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	products, err := s.productRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct validates and stores a new product. Active defaults to true.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name, err := requiredText("name", input.Name, maxProductNameLength)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, name, ""); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Description: input.Description,
		Active:      true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductNameTaken
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct applies only the fields present in the input
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name.Set {
		if input.Name.Null {
			return nil, notNullable("name")
		}
		name, err := requiredText("name", input.Name.Value, maxProductNameLength)
		if err != nil {
			return nil, err
		}
		if name != product.Name {
			if err := s.ensureNameAvailable(ctx, name, product.ID); err != nil {
				return nil, err
			}
		}
		product.Name = name
	}
	if input.Description.Set {
		product.Description = input.Description.Ptr()
	}
	if input.Active.Set {
		if input.Active.Null {
			return nil, notNullable("active")
		}
		product.Active = input.Active.Value
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductNameTaken
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct deletes a product that no bug references
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	count, err := s.productRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrProductNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// A bug was inserted between the count and the delete.
		return &InUseError{Resource: "product"}
	case err != nil:
		return fmt.Errorf("failed to delete product: %w", err)
	case count > 0:
		return &InUseError{Resource: "product", Count: count}
	}
	return nil
}

func (s *ProductService) findProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func (s *ProductService) ensureNameAvailable(ctx context.Context, name, selfID string) error {
	existing, err := s.productRepo.FindByName(ctx, name)
	if err == nil {
		if existing.ID != selfID {
			return ErrProductNameTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check product name: %w", err)
	}
	return nil
}
