package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"food-delivery-backend/models"
)

func item(price float64, qty int) models.OrderItem {
	return models.OrderItem{ItemID: "i", Name: "item", Price: price, Quantity: qty}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.OrderItem
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "reference order",
			items:    []models.OrderItem{item(12.99, 1), item(10.50, 2)},
			subtotal: "33.99",
			tax:      "2.72",
			total:    "36.71",
		},
		{
			name:     "no items",
			items:    nil,
			subtotal: "0",
			tax:      "0",
			total:    "0",
		},
		{
			name:     "free item",
			items:    []models.OrderItem{item(0, 3)},
			subtotal: "0",
			tax:      "0",
			total:    "0",
		},
		{
			name:     "tax rounds down",
			items:    []models.OrderItem{item(10.01, 1)},
			subtotal: "10.01",
			tax:      "0.8",
			total:    "10.81",
		},
		{
			name:     "tax rounds up",
			items:    []models.OrderItem{item(0.19, 1)},
			subtotal: "0.19",
			tax:      "0.02",
			total:    "0.21",
		},
		{
			name:     "quantities multiply exactly",
			items:    []models.OrderItem{item(0.1, 3), item(0.2, 7)},
			subtotal: "1.7",
			tax:      "0.14",
			total:    "1.84",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.items)

			assert.True(t, decimal.RequireFromString(tt.subtotal).Equal(got.Subtotal), "subtotal: got %s", got.Subtotal)
			assert.True(t, decimal.RequireFromString(tt.tax).Equal(got.Tax), "tax: got %s", got.Tax)
			assert.True(t, decimal.RequireFromString(tt.total).Equal(got.Total), "total: got %s", got.Total)
		})
	}
}

func TestCompute_RoundsTaxAndTotalSeparately(t *testing.T) {
	// 3 x 1.99 = 5.97; tax 0.4776 -> 0.48; total 6.45
	got := Compute([]models.OrderItem{item(1.99, 3)})

	assert.Equal(t, "5.97", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.48", got.Tax.StringFixed(2))
	assert.Equal(t, "6.45", got.Total.StringFixed(2))
}

func TestTotals_Apply(t *testing.T) {
	var o models.Order
	Compute([]models.OrderItem{item(12.99, 1), item(10.50, 2)}).Apply(&o)

	assert.Equal(t, 33.99, o.Subtotal)
	assert.Equal(t, 2.72, o.Tax)
	assert.Equal(t, 36.71, o.Total)
}
