package cart

import "github.com/shopspring/decimal"

// SumPrice returns Σ price × quantity over lines
func SumPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// SumQuantity returns Σ quantity over lines
func SumQuantity(lines []Line) int {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

// CalculateTotals derives the checkout summary for lines. Tax is reported but
// not added to TotalAmount; shipping only applies to a non-empty cart.
func CalculateTotals(lines []Line, pricing Pricing) Totals {
	totals := Totals{
		ItemCount:     len(lines),
		TotalQuantity: SumQuantity(lines),
		SubTotal:      SumPrice(lines),
		ShippingCost:  decimal.Zero,
	}

	totals.TaxAmount = totals.SubTotal.Mul(pricing.TaxRate).Round(2)
	if totals.TotalQuantity > 0 {
		totals.ShippingCost = pricing.ShippingCost
	}
	totals.TotalAmount = totals.SubTotal.Add(totals.ShippingCost)

	return totals
}
