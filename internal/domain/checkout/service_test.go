package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
)

func setupService(t *testing.T) (*Service, *cart.Engine) {
	t.Helper()
	c := cart.NewEngine()
	pricing := cart.Pricing{
		TaxRate:      decimal.RequireFromString("0.08"),
		ShippingCost: decimal.Zero,
	}
	return NewService(c, pricing, "USD", nil), c
}

func testProduct(id int, price string) product.Product {
	return product.Product{ID: id, Name: "Tee", Price: decimal.RequireFromString(price)}
}

func TestQuote(t *testing.T) {
	svc, c := setupService(t)
	c.AddLine(testProduct(1, "10.00"), "M", 3)

	quote := svc.Quote()
	assert.Equal(t, "30.00", quote.SubTotal.StringFixed(2))
	assert.Equal(t, "2.40", quote.TaxAmount.StringFixed(2))
	assert.Equal(t, "30.00", quote.TotalAmount.StringFixed(2))
	assert.Equal(t, 1, c.Len(), "quote leaves the cart alone")
}

func TestComplete(t *testing.T) {
	svc, c := setupService(t)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	c.AddLine(testProduct(1, "10.00"), "M", 1)
	c.AddLine(testProduct(1, "10.00"), "M", 2)
	c.AddLine(testProduct(2, "4.50"), "L", 2)

	receipt, err := svc.Complete(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(receipt.Number)
	assert.NoError(t, err)
	assert.Len(t, receipt.Lines, 2)
	assert.Equal(t, 5, receipt.Totals.TotalQuantity)
	assert.Equal(t, "39.00", receipt.Totals.TotalAmount.StringFixed(2))
	assert.Equal(t, "USD", receipt.Currency)
	assert.Equal(t, fixed, receipt.CompletedAt)

	assert.Zero(t, c.Len(), "checkout clears the cart")
}

func TestComplete_EmptyCart(t *testing.T) {
	svc, _ := setupService(t)

	receipt, err := svc.Complete(context.Background())
	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestComplete_CanceledContextKeepsCart(t *testing.T) {
	svc, c := setupService(t)
	c.AddLine(testProduct(1, "1.00"), "S", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Complete(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, c.Len())
}

func TestComplete_UniqueNumbers(t *testing.T) {
	svc, c := setupService(t)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		c.AddLine(testProduct(1, "1.00"), "S", 1)
		receipt, err := svc.Complete(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[receipt.Number])
		seen[receipt.Number] = true
	}
}
