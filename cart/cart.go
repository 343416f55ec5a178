package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// NoStore is the grouping bucket for lines that carry no destination store.
const NoStore = "no-store"

var (
	ErrKitConflict     = errors.New("a kit is already in the cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Line is one cart entry. Price, names and the kit flag are snapshotted from
// the catalog when the line is added.
type Line struct {
	ItemID    string          `json:"item_id"`
	NameEN    string          `json:"name_en"`
	NameFR    string          `json:"name_fr"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IsKit     bool            `json:"is_kit"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	StoreID   string          `json:"store_id,omitempty"`
}

// ExtendedPrice is UnitPrice × Quantity.
func (l Line) ExtendedPrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines of one user's cart, in insertion order.
type Cart struct {
	Items []Line `json:"items"`
}

// Selector identifies lines by item id, with optional size and store filters.
// A nil filter matches any value of that dimension.
type Selector struct {
	ItemID  string
	Size    *string
	StoreID *string
}

func (s Selector) matches(l Line) bool {
	if l.ItemID != s.ItemID {
		return false
	}
	if s.Size != nil && l.Size != *s.Size {
		return false
	}
	if s.StoreID != nil && l.StoreID != *s.StoreID {
		return false
	}
	return true
}

// AddLine merges the line with an existing (item, size, store) line,
// incrementing its quantity, or appends it. A kit line is refused outright
// while any kit line exists, whatever its store; the cart is left untouched.
func (c *Cart) AddLine(line Line) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if line.IsKit && c.HasKit() {
		return ErrKitConflict
	}
	for i := range c.Items {
		if c.Items[i].ItemID == line.ItemID &&
			c.Items[i].Size == line.Size &&
			c.Items[i].StoreID == line.StoreID {
			c.Items[i].Quantity += line.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, line)
	return nil
}

// Remove deletes all lines matched by the selector and reports how many.
func (c *Cart) Remove(sel Selector) int {
	kept := c.Items[:0]
	removed := 0
	for _, l := range c.Items {
		if sel.matches(l) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	c.Items = kept
	return removed
}

// SetQuantity updates the quantity of all matched lines; a quantity of zero
// or less removes them instead. Returns the number of lines affected.
func (c *Cart) SetQuantity(sel Selector, quantity int) int {
	if quantity <= 0 {
		return c.Remove(sel)
	}
	updated := 0
	for i := range c.Items {
		if sel.matches(c.Items[i]) {
			c.Items[i].Quantity = quantity
			updated++
		}
	}
	return updated
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// HasKit reports whether any kit line exists, regardless of store.
func (c *Cart) HasKit() bool {
	for _, l := range c.Items {
		if l.IsKit {
			return true
		}
	}
	return false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
