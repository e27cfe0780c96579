package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount int
		want     float64
	}{
		{"no discount", 100, 0, 100},
		{"10 percent off", 50, 10, 45},
		{"full discount", 20, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, UnitPrice(tt.price, tt.discount), 0.0001)
		})
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  Totals
	}{
		{
			name:  "single full price item at free shipping boundary",
			lines: []Line{{Price: 100, Discount: 0, Quantity: 1}},
			// 100 n'est pas strictement supérieur à 100: livraison due
			want: Totals{ItemsPrice: 100, TaxPrice: 10, ShippingPrice: 10, TotalPrice: 120},
		},
		{
			name:  "discounted pair under threshold",
			lines: []Line{{Price: 50, Discount: 10, Quantity: 2}},
			want:  Totals{ItemsPrice: 90, TaxPrice: 9, ShippingPrice: 10, TotalPrice: 109},
		},
		{
			name:  "free shipping above threshold",
			lines: []Line{{Price: 60.50, Discount: 0, Quantity: 2}},
			want:  Totals{ItemsPrice: 121, TaxPrice: 12.10, ShippingPrice: 0, TotalPrice: 133.10},
		},
		{
			name: "mixed lines with rounding",
			lines: []Line{
				{Price: 19.99, Discount: 15, Quantity: 3},
				{Price: 5, Discount: 0, Quantity: 1},
			},
			// 3*16.9915 + 5 = 55.9745 -> 55.97
			want: Totals{ItemsPrice: 55.97, TaxPrice: 5.60, ShippingPrice: 10, TotalPrice: 71.57},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.lines)
			assert.InDelta(t, tt.want.ItemsPrice, got.ItemsPrice, 0.001, "itemsPrice")
			assert.InDelta(t, tt.want.TaxPrice, got.TaxPrice, 0.001, "taxPrice")
			assert.InDelta(t, tt.want.ShippingPrice, got.ShippingPrice, 0.001, "shippingPrice")
			assert.InDelta(t, tt.want.TotalPrice, got.TotalPrice, 0.001, "totalPrice")
		})
	}
}

func TestComputeTotalIdentity(t *testing.T) {
	carts := [][]Line{
		{{Price: 9.99, Discount: 0, Quantity: 1}},
		{{Price: 33.33, Discount: 7, Quantity: 3}, {Price: 120, Discount: 50, Quantity: 2}},
		{{Price: 0.01, Discount: 0, Quantity: 1}},
	}

	for _, lines := range carts {
		got := Compute(lines)
		assert.InDelta(t, got.ItemsPrice+got.TaxPrice+got.ShippingPrice, got.TotalPrice, 0.001)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2349))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, 0.0, Round2(0.004))
}
