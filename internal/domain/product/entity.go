// internal/domain/product/entity.go
package product

import (
	"github.com/shopspring/decimal"
)

// Rating is the aggregate customer rating of a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog record. Cart lines and wishlist entries copy the fields
// they need at insertion time, so later catalog edits never reach them.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Rating      Rating          `json:"rating"`
	Sizes       []string        `json:"sizes,omitempty"`
}

// Snapshot returns a copy of p that shares no memory with it
func (p Product) Snapshot() Product {
	cp := p
	if p.Sizes != nil {
		cp.Sizes = append([]string(nil), p.Sizes...)
	}
	return cp
}

// HasSize reports whether size is one of the product's sizes
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// DefaultSize returns the first listed size, or "" when the product has none
func (p Product) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}

// CategoryCount is the number of catalog products in one category
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
