package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/amara-naturals/storefront-backend/internal/cart"
	pkgerrors "github.com/amara-naturals/storefront-backend/pkg/errors"
)

const greeting = "Hello, I would like to place an order:"

// Summary is a rendered order hand-off: the human-readable message, its
// transport-safe encoding, the deep link that opens the chat, and the
// exact total.
type Summary struct {
	Message          string          `json:"message"`
	TransportPayload string          `json:"transport_payload"`
	DeepLink         string          `json:"deep_link"`
	Total            decimal.Decimal `json:"total"`
	ItemCount        int             `json:"item_count"`
}

// Formatter renders carts into WhatsApp order messages.
type Formatter struct {
	base      string
	recipient string
}

// NewFormatter builds a formatter for the given messaging base URL
// (normally https://wa.me) and recipient number.
func NewFormatter(base, recipient string) (*Formatter, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("messaging base url required")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, fmt.Errorf("recipient number required")
	}
	return &Formatter{base: base, recipient: recipient}, nil
}

// Format renders the cart into an order summary. An empty cart is refused:
// there is nothing to hand off.
func (f *Formatter) Format(c cart.Cart) (*Summary, error) {
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items")
	}

	items := c.Items()
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s × %d = ₹%s", item.Name, item.Quantity, formatINR(item.Subtotal())))
	}

	total := c.Total()
	message := greeting + "\n\n" + strings.Join(lines, "\n") + "\n\nTotal: ₹" + formatINR(total)
	payload := encodeComponent(message)

	return &Summary{
		Message:          message,
		TransportPayload: payload,
		DeepLink:         fmt.Sprintf("%s/%s?text=%s", f.base, f.recipient, payload),
		Total:            total,
		ItemCount:        c.Count(),
	}, nil
}

// formatINR renders an amount the way the storefront shows prices: whole
// rupee amounts without decimals, fractional ones with exactly two.
func formatINR(amount decimal.Decimal) string {
	if amount.IsInteger() {
		return amount.StringFixed(0)
	}
	return amount.StringFixed(2)
}

const upperhex = "0123456789ABCDEF"

// encodeComponent percent-encodes for a URL query component. Unlike
// url.QueryEscape it never emits "+" for spaces, so the payload decodes
// identically everywhere a %XX decoder runs.
func encodeComponent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isComponentSafe(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[ch>>4])
		b.WriteByte(upperhex[ch&0x0F])
	}
	return b.String()
}

func isComponentSafe(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	switch ch {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
