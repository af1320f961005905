package dto

import (
	"time"

	"github.com/yukikurage/bug-tracker-api/internal/models"
)

// ProductDTO represents a product in API responses
type ProductDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest is the body of POST /api/admin/products
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// UpdateProductRequest is the body of PATCH /api/admin/products/{id}
type UpdateProductRequest struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	Active      Optional[bool]   `json:"active"`
}

// ToProductDTO converts a Product model to ProductDTO
func ToProductDTO(product models.Product) ProductDTO {
	return ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Active:      product.Active,
		CreatedAt:   product.CreatedAt,
	}
}

// ToProductDTOs converts a slice, never returning nil so lists encode as [].
func ToProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductDTO(p))
	}
	return out
}
