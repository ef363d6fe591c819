// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/product"
)

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID int    `json:"product_id" binding:"required,min=1"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

// UpdateCartItemRequest represents a quantity change. Zero or less removes
// the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateCartItemSizeRequest represents a size change
type UpdateCartItemSizeRequest struct {
	CurrentSize string `json:"current_size" binding:"required"`
	NewSize     string `json:"new_size" binding:"required"`
}

// CartResponse is the cart view returned to clients
type CartResponse struct {
	Items    []cart.Line `json:"items"`
	Totals   cart.Totals `json:"totals"`
	Currency string      `json:"currency"`
}

// CartHandler handles cart endpoints
type CartHandler struct {
	cart     *cart.Engine
	catalog  *product.Catalog
	checkout *checkout.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(c *cart.Engine, catalog *product.Catalog, checkoutService *checkout.Service) *CartHandler {
	return &CartHandler{
		cart:     c,
		catalog:  catalog,
		checkout: checkoutService,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartResponse(),
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": h.cart.ItemCount(),
			"lines": h.cart.Len(),
		},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	p, ok := h.lookupProduct(c, req.ProductID)
	if !ok {
		return
	}

	size := req.Size
	if size == "" {
		size = p.DefaultSize()
	}
	if len(p.Sizes) > 0 && !p.HasSize(size) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid size",
			"details": fmt.Sprintf("available sizes: %v", p.Sizes),
		})
		return
	}

	result := h.cart.AddLine(p, size, req.Quantity)

	notification := "Added to cart"
	status := http.StatusCreated
	if result.Merged {
		notification = "Quantity updated"
		status = http.StatusOK
	}

	c.JSON(status, gin.H{
		"message":      "Item added to cart successfully",
		"notification": notification,
		"data": gin.H{
			"item": result.Line,
			"cart": h.cartResponse(),
		},
	})
}

// UpdateCartItem handles PUT /cart/items/:id?size=
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	result := h.cart.SetQuantity(id, c.Query("size"), *req.Quantity)
	if !result.Found {
		cartItemNotFound(c)
		return
	}

	notification := "Quantity updated"
	if result.Removed {
		notification = "Removed from cart"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Cart item updated successfully",
		"notification": notification,
		"data":         h.cartResponse(),
	})
}

// UpdateCartItemSize handles PATCH /cart/items/:id/size
func (h *CartHandler) UpdateCartItemSize(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateCartItemSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	// Products that left the catalog keep whatever sizes their lines have.
	if p, err := h.catalog.Get(id); err == nil && len(p.Sizes) > 0 && !p.HasSize(req.NewSize) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid size",
			"details": fmt.Sprintf("available sizes: %v", p.Sizes),
		})
		return
	}

	result := h.cart.SetSize(id, req.CurrentSize, req.NewSize)
	if !result.Found {
		cartItemNotFound(c)
		return
	}

	notification := fmt.Sprintf("Size changed from %s to %s", req.CurrentSize, req.NewSize)
	if result.Merged {
		notification += ", quantities merged"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Cart item updated successfully",
		"notification": notification,
		"data": gin.H{
			"item": result.Line,
			"cart": h.cartResponse(),
		},
	})
}

// RemoveFromCart handles DELETE /cart/items/:id?size=
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if _, removed := h.cart.RemoveLine(id, c.Query("size")); !removed {
		cartItemNotFound(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Item removed from cart successfully",
		"notification": "Removed from cart",
		"data":         h.cartResponse(),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.cart.Clear()

	c.JSON(http.StatusOK, gin.H{
		"message":      "Cart cleared successfully",
		"notification": "Cart cleared",
		"data":         h.cartResponse(),
	})
}

// GetQuote handles GET /cart/quote
func (h *CartHandler) GetQuote(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Quote calculated successfully",
		"data": gin.H{
			"totals":   h.checkout.Quote(),
			"currency": h.checkout.Currency(),
		},
	})
}

func (h *CartHandler) cartResponse() CartResponse {
	lines := h.cart.Lines()
	return CartResponse{
		Items:    lines,
		Totals:   cart.CalculateTotals(lines, h.checkout.Pricing()),
		Currency: h.checkout.Currency(),
	}
}

func (h *CartHandler) lookupProduct(c *gin.Context, id int) (product.Product, bool) {
	p, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return product.Product{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve product",
		})
		return product.Product{}, false
	}
	return p, true
}

func cartItemNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "Cart item not found",
	})
}
