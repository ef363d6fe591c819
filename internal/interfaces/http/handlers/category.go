// internal/interfaces/http/handlers/category.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/product"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	catalog *product.Catalog
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(catalog *product.Catalog) *CategoryHandler {
	return &CategoryHandler{
		catalog: catalog,
	}
}

// GetCategories handles GET /products/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories := h.catalog.Categories()

	// Query parameter to include product counts
	if c.Query("include_counts") == "true" {
		c.JSON(http.StatusOK, gin.H{
			"message": "Categories retrieved successfully",
			"data":    categories,
		})
		return
	}

	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.Name)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    names,
	})
}

// GetCategoryProducts handles GET /products/categories/:name
func (h *CategoryHandler) GetCategoryProducts(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))

	var req product.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}
	req.Category = name

	response := h.catalog.List(req)
	if response.Pagination.Total == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Category not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category products retrieved successfully",
		"data":    response,
	})
}
