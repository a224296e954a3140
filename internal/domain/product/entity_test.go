package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice(t *testing.T) {
	p := &Product{Price: 19999, DiscountPct: 10}
	assert.Equal(t, int64(18000), p.DiscountedPrice())

	p = &Product{Price: 19999, DiscountPct: 0}
	assert.Equal(t, int64(19999), p.DiscountedPrice())

	p = &Product{Price: 999, DiscountPct: 100}
	assert.Equal(t, int64(0), p.DiscountedPrice())

	// integer division truncates toward the customer's favor
	p = &Product{Price: 99, DiscountPct: 33}
	assert.Equal(t, int64(67), p.DiscountedPrice())
}

func TestEffectivePrice(t *testing.T) {
	p := &Product{Price: 8999, DiscountPct: 20}
	assert.Equal(t, p.DiscountedPrice(), p.EffectivePrice())
}

func TestStockStatus(t *testing.T) {
	cases := []struct {
		stock     int
		threshold int
		want      string
	}{
		{0, 5, StockStatusOutOfStock},
		{-1, 5, StockStatusOutOfStock},
		{1, 5, StockStatusLowStock},
		{5, 5, StockStatusLowStock},
		{6, 5, StockStatusInStock},
		{100, 5, StockStatusInStock},
	}

	for _, tc := range cases {
		p := &Product{Stock: tc.stock, LowStockThreshold: tc.threshold}
		assert.Equal(t, tc.want, p.StockStatus(), "stock=%d threshold=%d", tc.stock, tc.threshold)
	}
}

func TestIsPurchasable(t *testing.T) {
	assert.True(t, (&Product{IsActive: true, Stock: 1}).IsPurchasable())
	assert.False(t, (&Product{IsActive: true, Stock: 0}).IsPurchasable())
	assert.False(t, (&Product{IsActive: false, Stock: 10}).IsPurchasable())
}

func TestIsInStock(t *testing.T) {
	assert.True(t, (&Product{Stock: 1}).IsInStock())
	assert.False(t, (&Product{Stock: 0}).IsInStock())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "wireless-headphones", Slugify("Wireless Headphones"))
	assert.Equal(t, "usb-c-cable-2m", Slugify("  USB-C Cable (2m)  "))
	assert.Equal(t, "cafe-mug", Slugify("Cafe & Mug!"))
	assert.Equal(t, "", Slugify("!!!"))
}
