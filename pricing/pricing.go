// Package pricing computes order totals.
package pricing

import (
	"github.com/shopspring/decimal"

	"food-delivery-backend/models"
)

// TaxRate is applied to the subtotal of every order.
var TaxRate = decimal.RequireFromString("0.08")

// Totals holds the computed amounts of an order.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute sums price x quantity over items, then rounds tax and total to two
// decimal places independently:
//
//	tax   = round(subtotal * 0.08, 2)
//	total = round(subtotal + tax, 2)
//
// The subtotal itself is not rounded. No items yields all zeros.
func Compute(items []models.OrderItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		price := decimal.NewFromFloat(it.Price)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(tax).Round(2)
	return Totals{Subtotal: subtotal, Tax: tax, Total: total}
}

// Apply writes the totals onto o as stored amounts.
func (t Totals) Apply(o *models.Order) {
	o.Subtotal = t.Subtotal.InexactFloat64()
	o.Tax = t.Tax.InexactFloat64()
	o.Total = t.Total.InexactFloat64()
}
