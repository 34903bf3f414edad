// Package cart implements the in-memory cart held by a single session.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/toastmobile/ordering/internal/models"
)

// Cart is an ordered collection of line items. It holds at most one line
// per menu item id: adding an item that is already present increments the
// existing line's quantity instead of appending a duplicate.
//
// A Cart belongs to exactly one session and is never shared across
// concurrent operations, so it carries no locking.
type Cart struct {
	lines []models.CartLine
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds qty units of item to the cart, merging into an existing
// line when one exists for the same menu item id. A qty below 1 is
// treated as 1. Item prices are taken as supplied; callers are expected
// to pass items straight from the fetched menu.
func (c *Cart) AddItem(item models.MenuItem, qty int) {
	if qty < 1 {
		qty = 1
	}

	for i := range c.lines {
		if c.lines[i].MenuItemID == item.ID {
			c.lines[i].Quantity += qty
			return
		}
	}

	c.lines = append(c.lines, models.CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   qty,
	})
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Total returns the exact sum of price times quantity across all lines.
// Accumulation is done in decimal arithmetic so the figure matches the
// checkout display digit for digit; rounding happens only at display time.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		price := decimal.NewFromFloat(line.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear empties the cart. Invoked after a successful order submission.
func (c *Cart) Clear() {
	c.lines = nil
}
