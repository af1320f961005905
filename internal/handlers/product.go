package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-tracker-api/internal/dto"
	"github.com/yukikurage/bug-tracker-api/internal/services"
)

// ProductHandler serves the product catalog
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ListProducts returns active products for the bug submission form
func (h *ProductHandler) ListProducts(c *gin.Context) {
	h.list(c, true)
}

// ListAllProducts returns every product including inactive ones
func (h *ProductHandler) ListAllProducts(c *gin.Context) {
	h.list(c, false)
}

func (h *ProductHandler) list(c *gin.Context, activeOnly bool) {
	products, err := h.productService.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductDTOs(products))
}

// CreateProduct creates a new product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), services.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProductDTO(*product))
}

// UpdateProduct applies a partial update
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProductDTO(*product))
}

// DeleteProduct deletes a product no bug references
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
