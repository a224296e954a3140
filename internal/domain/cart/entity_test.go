package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecalculateTotals(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ProductID: 1, Quantity: 2, Price: 1999},
			{ProductID: 2, Quantity: 1, Price: 4500},
		},
	}

	c.RecalculateTotals()

	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, int64(8498), c.TotalAmount)
}

func TestRecalculateTotals_Empty(t *testing.T) {
	c := &Cart{TotalItems: 5, TotalAmount: 12345}

	c.RecalculateTotals()

	assert.Equal(t, 0, c.TotalItems)
	assert.Equal(t, int64(0), c.TotalAmount)
}

func TestFindItem(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ID: 10, ProductID: 7, Quantity: 1, Price: 100},
			{ID: 11, ProductID: 8, Quantity: 2, Price: 200},
		},
	}

	item := c.FindItem(8)
	assert.NotNil(t, item)
	assert.Equal(t, uint(11), item.ID)

	// returned pointer aliases the slice element
	item.Quantity = 9
	assert.Equal(t, 9, c.Items[1].Quantity)

	assert.Nil(t, c.FindItem(99))
}

func TestIsEmpty(t *testing.T) {
	c := &Cart{}
	assert.True(t, c.IsEmpty())

	c.Items = append(c.Items, CartItem{ProductID: 1, Quantity: 1})
	assert.False(t, c.IsEmpty())
}
