// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/internal/domain/product"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	catalog *product.Catalog
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog *product.Catalog) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ListRequest

	// Bind query parameters
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	var err error
	if req.MinPrice, err = parsePrice(c.Query("min_price")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid min_price",
			"details": err.Error(),
		})
		return
	}
	if req.MaxPrice, err = parsePrice(c.Query("max_price")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid max_price",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    h.catalog.List(req),
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	p, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("price must not be negative")
	}
	return d, nil
}
