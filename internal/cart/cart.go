package cart

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one cart entry. Name and price are snapshots taken from the
// catalog when the item enters the cart, so later catalog edits do not
// silently reprice an open cart.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

// Subtotal is the line total for this entry.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart maps product id to its line item. The zero value is usable.
type Cart map[string]LineItem

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// SetQuantity pins the quantity for an item. A quantity of zero or less
// removes the entry. The AddedAt stamp of an existing entry survives so
// item ordering stays stable across updates.
func (c Cart) SetQuantity(item LineItem, quantity int, now time.Time) {
	key := item.ProductID.String()
	if quantity <= 0 {
		delete(c, key)
		return
	}

	item.Quantity = quantity
	if existing, ok := c[key]; ok {
		item.AddedAt = existing.AddedAt
	} else {
		item.AddedAt = now
	}
	c[key] = item
}

// Remove drops the entry for the product if present.
func (c Cart) Remove(productID uuid.UUID) {
	delete(c, productID.String())
}

// Items returns the entries in insertion order.
func (c Cart) Items() []LineItem {
	items := make([]LineItem, 0, len(c))
	for _, item := range c {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.Before(items[j].AddedAt)
		}
		return items[i].Name < items[j].Name
	})
	return items
}

// Total sums the line subtotals with exact decimal arithmetic.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count reports the total number of units across all lines.
func (c Cart) Count() int {
	count := 0
	for _, item := range c {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no entries.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
