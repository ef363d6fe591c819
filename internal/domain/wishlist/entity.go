package wishlist

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/internal/domain/product"
)

// Entry is one saved product. The product fields are copied at insertion
// time; the JSON shape is what gets persisted.
type Entry struct {
	ProductID   int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Rating      product.Rating  `json:"rating"`
	Sizes       []string        `json:"sizes,omitempty"`
	AddedAt     time.Time       `json:"added_at"`
}

// NewEntry snapshots p into an entry added at addedAt
func NewEntry(p product.Product, addedAt time.Time) Entry {
	snap := p.Snapshot()
	return Entry{
		ProductID:   snap.ID,
		Name:        snap.Name,
		Description: snap.Description,
		Price:       snap.Price,
		Image:       snap.Image,
		Category:    snap.Category,
		Rating:      snap.Rating,
		Sizes:       snap.Sizes,
		AddedAt:     addedAt,
	}
}

// Product rebuilds the product snapshot held by the entry
func (e Entry) Product() product.Product {
	p := product.Product{
		ID:          e.ProductID,
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		Image:       e.Image,
		Category:    e.Category,
		Rating:      e.Rating,
		Sizes:       e.Sizes,
	}
	return p.Snapshot()
}

func (e Entry) clone() Entry {
	if e.Sizes != nil {
		e.Sizes = append([]string(nil), e.Sizes...)
	}
	return e
}

// Summary aggregates the wishlist for display
type Summary struct {
	TotalItems   int             `json:"total_items"`
	TotalValue   decimal.Decimal `json:"total_value"`
	AveragePrice decimal.Decimal `json:"average_price"`
	// RecentlyAdded counts entries added in the last 7 days
	RecentlyAdded int `json:"recently_added"`
}

// recentWindow is how far back Summary.RecentlyAdded looks
const recentWindow = 7 * 24 * time.Hour
