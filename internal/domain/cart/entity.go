// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. The same product in two sizes is two lines.
type LineKey struct {
	ProductID int
	Size      string
}

// Line is one cart entry. Price, name, image and category are copied from the
// product when the line is created.
type Line struct {
	ProductID int             `json:"product_id"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	AddedAt   time.Time       `json:"added_at"`
}

// Key returns the line's identity
func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size}
}

// Subtotal is price × quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddResult reports what AddLine did
type AddResult struct {
	Line   Line `json:"line"`
	Merged bool `json:"merged"`
}

// QuantityResult reports what SetQuantity did. Found is false when no line
// matched the key, in which case nothing changed.
type QuantityResult struct {
	Line    Line `json:"line"`
	Found   bool `json:"found"`
	Removed bool `json:"removed"`
}

// SizeResult reports what SetSize did. Line is the line now holding the
// moved quantity.
type SizeResult struct {
	Line   Line `json:"line"`
	Found  bool `json:"found"`
	Merged bool `json:"merged"`
}

// Pricing holds the rules applied on top of the line subtotal
type Pricing struct {
	TaxRate      decimal.Decimal
	ShippingCost decimal.Decimal
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int             `json:"item_count"`     // Number of distinct lines
	TotalQuantity int             `json:"total_quantity"` // Sum of all quantities
	SubTotal      decimal.Decimal `json:"sub_total"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}
