// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/wishlist"
)

// AddToWishlistRequest represents add to wishlist request
type AddToWishlistRequest struct {
	ProductID int `json:"product_id" binding:"required,min=1"`
}

// MoveToCartRequest represents move to cart request
type MoveToCartRequest struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlist *wishlist.Engine
	catalog  *product.Catalog
	cart     *cart.Engine
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(w *wishlist.Engine, catalog *product.Catalog, c *cart.Engine) *WishlistHandler {
	return &WishlistHandler{
		wishlist: w,
		catalog:  catalog,
		cart:     c,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	entries := h.wishlist.Entries()

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data": gin.H{
			"items": entries,
			"count": len(entries),
		},
	})
}

// GetWishlistCount handles GET /wishlist/count
func (h *WishlistHandler) GetWishlistCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist count retrieved successfully",
		"data": gin.H{
			"count": h.wishlist.Count(),
		},
	})
}

// GetWishlistSummary handles GET /wishlist/summary
func (h *WishlistHandler) GetWishlistSummary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist summary retrieved successfully",
		"data":    h.wishlist.Summary(),
	})
}

// CheckWishlistItem handles GET /wishlist/items/:id
func (h *WishlistHandler) CheckWishlistItem(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist status retrieved successfully",
		"data": gin.H{
			"product_id":  id,
			"in_wishlist": h.wishlist.IsPresent(id),
		},
	})
}

// AddToWishlist handles POST /wishlist/items
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	p, ok := h.lookupProduct(c, req.ProductID)
	if !ok {
		return
	}

	entry, added := h.wishlist.AddEntry(p)

	status := http.StatusCreated
	notification := "Added to wishlist"
	if !added {
		status = http.StatusOK
		notification = "Already in wishlist"
	}

	c.JSON(status, gin.H{
		"message":      "Item added to wishlist successfully",
		"notification": notification,
		"data":         entry,
	})
}

// ToggleWishlistItem handles POST /wishlist/items/:id/toggle
func (h *WishlistHandler) ToggleWishlistItem(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	// Saved products that left the catalog can still be toggled off.
	var present bool
	if p, err := h.catalog.Get(id); err == nil {
		present = h.wishlist.Toggle(p)
	} else if _, removed := h.wishlist.RemoveEntry(id); !removed {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	notification := "Removed from wishlist"
	if present {
		notification = "Added to wishlist"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Wishlist updated successfully",
		"notification": notification,
		"data": gin.H{
			"product_id":  id,
			"in_wishlist": present,
			"count":       h.wishlist.Count(),
		},
	})
}

// RemoveFromWishlist handles DELETE /wishlist/items/:id
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if _, removed := h.wishlist.RemoveEntry(id); !removed {
		wishlistItemNotFound(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Item removed from wishlist successfully",
		"notification": "Removed from wishlist",
	})
}

// MoveToCart handles POST /wishlist/items/:id/move-to-cart
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req MoveToCartRequest
	// An empty body moves one item in the default size.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidRequest(c, err)
			return
		}
	}

	entry, found := h.wishlist.Entry(id)
	if !found {
		wishlistItemNotFound(c)
		return
	}
	if req.Size != "" && len(entry.Sizes) > 0 && !entry.Product().HasSize(req.Size) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid size",
			"details": fmt.Sprintf("available sizes: %v", entry.Sizes),
		})
		return
	}

	result, moved := h.wishlist.MoveToCart(id, req.Size, req.Quantity, h.cart)
	if !moved {
		wishlistItemNotFound(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Item moved to cart successfully",
		"notification": "Moved to cart",
		"data":         result.Line,
	})
}

// ClearWishlist handles DELETE /wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	h.wishlist.Clear()

	c.JSON(http.StatusOK, gin.H{
		"message":      "Wishlist cleared successfully",
		"notification": "Wishlist cleared",
	})
}

func (h *WishlistHandler) lookupProduct(c *gin.Context, id int) (product.Product, bool) {
	p, err := h.catalog.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return product.Product{}, false
	}
	return p, true
}

func wishlistItemNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "Item not found in wishlist",
	})
}
