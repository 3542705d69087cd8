package entity

import (
	"testing"

	"dinein/internal/domain/constants"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(id string, price string, quantity int) CartLine {
	return CartLine{ID: id, UnitPrice: decimal.RequireFromString(price), Quantity: quantity}
}

func TestNewCart_TotalIsSumOfLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []CartLine
		want  string
	}{
		{name: "empty", lines: nil, want: "0"},
		{name: "single", lines: []CartLine{line("a", "10", 2)}, want: "20"},
		{name: "fractional", lines: []CartLine{line("a", "2.5", 3), line("b", "4.25", 1)}, want: "11.75"},
		{name: "no float drift", lines: []CartLine{line("a", "0.1", 1), line("b", "0.2", 1)}, want: "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart(tt.lines)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(cart.Total), cart.Total.String())
		})
	}
}

func TestCart_CloneDoesNotAlias(t *testing.T) {
	original := NewCart([]CartLine{{
		ID:        "a",
		UnitPrice: decimal.NewFromInt(5),
		Quantity:  1,
		Addons:    []Addon{{Name: "extra chutney"}},
	}})

	clone := original.Clone()
	clone.Lines[0].Quantity = 9
	clone.Lines[0].Addons[0].Name = "changed"

	assert.Equal(t, 1, original.Lines[0].Quantity)
	assert.Equal(t, "extra chutney", original.Lines[0].Addons[0].Name)
}

func TestCart_Lookups(t *testing.T) {
	cart := NewCart([]CartLine{line("a", "1", 2), line(constants.TempLinePrefix+"x", "3", 4)})

	assert.Equal(t, 1, cart.Find(constants.TempLinePrefix+"x"))
	assert.Equal(t, -1, cart.Find("missing"))
	assert.Equal(t, 6, cart.ItemCount())
	assert.False(t, cart.Lines[0].Temporary())
	assert.True(t, cart.Lines[1].Temporary())
	assert.False(t, cart.Empty())
	assert.True(t, Cart{}.Empty())
}
