// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/pkg/logger"
)

// ErrEmptyCart is returned when checking out a cart with no lines
var ErrEmptyCart = errors.New("cart is empty")

// Receipt records one completed checkout
type Receipt struct {
	Number      string      `json:"number"`
	Lines       []cart.Line `json:"lines"`
	Totals      cart.Totals `json:"totals"`
	Currency    string      `json:"currency"`
	CompletedAt time.Time   `json:"completed_at"`
}

// Service turns the current cart into a receipt
type Service struct {
	cart     *cart.Engine
	pricing  cart.Pricing
	currency string
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a new checkout service
func NewService(c *cart.Engine, pricing cart.Pricing, currency string, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		cart:     c,
		pricing:  pricing,
		currency: currency,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Pricing returns the pricing rules applied to totals
func (s *Service) Pricing() cart.Pricing {
	return s.pricing
}

// Currency returns the currency code reported on quotes and receipts
func (s *Service) Currency() string {
	return s.currency
}

// Quote returns the current cart totals without changing the cart
func (s *Service) Quote() cart.Totals {
	return s.cart.Totals(s.pricing)
}

// Complete empties the cart and returns a receipt for what it held
func (s *Service) Complete(ctx context.Context) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := s.cart.Drain()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	receipt := &Receipt{
		Number:      uuid.New().String(),
		Lines:       lines,
		Totals:      cart.CalculateTotals(lines, s.pricing),
		Currency:    s.currency,
		CompletedAt: s.now(),
	}

	s.log.WithFields(logrus.Fields{
		"receipt":        receipt.Number,
		"lines":          receipt.Totals.ItemCount,
		"total_quantity": receipt.Totals.TotalQuantity,
		"total_amount":   receipt.Totals.TotalAmount.StringFixed(2),
	}).Info("checkout completed")

	return receipt, nil
}
