// Package cart holds order drafts. A cart is transient: it is cleared when an
// order is placed or edited from it, and losing it only loses a draft.
package cart

import (
	"sort"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/shopspring/decimal"
)

// Catalog resolves menu item ids
type Catalog interface {
	Lookup(id int64) (models.MenuItem, bool)
}

// Line is one cart entry
type Line struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// Cart maps item id to a positive quantity. The zero value is an empty cart.
type Cart struct {
	lines map[int64]int
}

// New returns an empty cart
func New() *Cart {
	return &Cart{lines: make(map[int64]int)}
}

// FromLines builds a cart by adjusting each line in turn
func FromLines(lines []Line) *Cart {
	c := New()
	for _, l := range lines {
		c.Adjust(l.ItemID, l.Quantity)
	}
	return c
}

// MaxQuantity is the most units a single line can hold
const MaxQuantity = 999

// Adjust adds delta to the item's quantity, clamping to [0, MaxQuantity]. A
// line that reaches zero is removed.
func (c *Cart) Adjust(itemID int64, delta int) {
	if c.lines == nil {
		c.lines = make(map[int64]int)
	}
	qty := c.lines[itemID]
	switch {
	case delta >= MaxQuantity-qty:
		qty = MaxQuantity
	case delta <= -qty:
		qty = 0
	default:
		qty += delta
	}
	if qty == 0 {
		delete(c.lines, itemID)
		return
	}
	c.lines[itemID] = qty
}

// Quantity returns the quantity for an item, zero if absent
func (c *Cart) Quantity(itemID int64) int {
	return c.lines[itemID]
}

// Lines returns the cart content ordered by item id
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.lines))
	for id, qty := range c.lines {
		lines = append(lines, Line{ItemID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
	return lines
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalItems sums quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, qty := range c.lines {
		total += qty
	}
	return total
}

// TotalPrice prices the cart against the catalog. Ids missing from the
// catalog contribute nothing.
func (c *Cart) TotalPrice(catalog Catalog) decimal.Decimal {
	total := decimal.Zero
	for id, qty := range c.lines {
		item, ok := catalog.Lookup(id)
		if !ok {
			continue
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// Snapshot copies the current catalog name and price of every resolvable
// line. Stale ids are dropped.
func (c *Cart) Snapshot(catalog Catalog) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, line := range c.Lines() {
		item, ok := catalog.Lookup(line.ItemID)
		if !ok {
			continue
		}
		items = append(items, models.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
		})
	}
	return items
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = make(map[int64]int)
}

// Clone copies the cart
func (c *Cart) Clone() *Cart {
	n := New()
	for id, qty := range c.lines {
		n.lines[id] = qty
	}
	return n
}
