package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Totals are derived values and must be callable straight on a returned
// cart, without binding it to a variable first.
func TestCartTotalsOnReturnedValue(t *testing.T) {
	mk := func() Cart {
		return Cart{Items: []CartItem{
			{Product: Product{ID: 1, Name: "Bolo de Cenoura", Price: 20.0}, Quantity: 2},
			{Product: Product{ID: 2, Name: "Torta de Limão", Price: 15.5}, Quantity: 1},
		}}
	}

	assert.Equal(t, 3, mk().TotalItems())
	assert.InDelta(t, 55.5, mk().TotalPrice(), 0.0001)
	assert.Equal(t, 1, mk().Find(2))
	assert.Equal(t, -1, mk().Find(99))
}

func TestEmptyCartTotals(t *testing.T) {
	var c Cart
	assert.Equal(t, 0, c.TotalItems())
	assert.Equal(t, 0.0, c.TotalPrice())
}
