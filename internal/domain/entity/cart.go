package entity

import (
	"slices"
	"strings"

	"dinein/internal/domain/constants"

	"github.com/shopspring/decimal"
)

// Addon is an option chosen for a cart line. Addons are informational; the
// line contribution is unit price times quantity.
type Addon struct {
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CartLine is one order line in the working cart.
type CartLine struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"productId"`
	Name                string          `json:"name"`
	UnitPrice           decimal.Decimal `json:"unitPrice"`
	Quantity            int             `json:"quantity"`
	Addons              []Addon         `json:"addons,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

// Subtotal returns unit price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Temporary reports whether the line was synthesized locally and not yet confirmed.
func (l CartLine) Temporary() bool {
	return strings.HasPrefix(l.ID, constants.TempLinePrefix)
}

// Cart is the client mirror of the server cart.
type Cart struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// SumLines recomputes the cart total from line contributions.
func SumLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}

	return total
}

// NewCart builds a cart whose total is derived from its lines.
func NewCart(lines []CartLine) Cart {
	return Cart{Lines: lines, Total: SumLines(lines)}
}

// Clone returns a deep copy so snapshots never alias live state.
func (c Cart) Clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	for i, line := range c.Lines {
		line.Addons = slices.Clone(line.Addons)
		lines[i] = line
	}

	return Cart{Lines: lines, Total: c.Total}
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Find returns the index of the line with id, or -1.
func (c Cart) Find(lineID string) int {
	return slices.IndexFunc(c.Lines, func(l CartLine) bool { return l.ID == lineID })
}

// ItemCount sums quantities across lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}

	return count
}
