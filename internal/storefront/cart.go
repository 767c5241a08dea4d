package storefront

import (
	"fmt"
	"math"

	"github.com/Lixing-Zhang/storefront/internal/models"
)

const (
	MinQuantity = 1
	MaxQuantity = 99

	// FallbackCurrency is shown for rows whose product is unknown and for
	// carts with no resolved rows.
	FallbackCurrency = "USD"
)

// CartItem is a client-held cart line
type CartItem struct {
	ProductID string
	Quantity  int
}

// Row is a cart line joined with its product. Product is nil when the id
// did not resolve; such rows price at zero.
type Row struct {
	Item      CartItem
	Product   *models.Product
	UnitPrice float64
	Currency  string
	LineTotal float64
}

// Unknown reports whether the row references a product that was not found
func (r Row) Unknown() bool {
	return r.Product == nil
}

// Cart is an ordered list of lines keyed by product id.
// It is not safe for concurrent use.
type Cart struct {
	items []CartItem
}

// NewCart creates a cart seeded with items; quantities are clamped
func NewCart(items ...CartItem) *Cart {
	c := &Cart{}
	for _, it := range items {
		c.Add(it.ProductID, it.Quantity)
	}
	return c
}

// ClampQuantity floors raw into [MinQuantity, MaxQuantity]; NaN and
// infinities become MinQuantity.
func ClampQuantity(raw float64) int {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return MinQuantity
	}
	q := math.Floor(raw)
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return int(q)
}

// Items returns a copy of the cart lines
func (c *Cart) Items() []CartItem {
	return append([]CartItem(nil), c.items...)
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.items)
}

// Add appends a line or increases an existing one, clamping the result
func (c *Cart) Add(productID string, quantity int) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = ClampQuantity(float64(c.items[i].Quantity) + float64(quantity))
			return
		}
	}
	c.items = append(c.items, CartItem{ProductID: productID, Quantity: ClampQuantity(float64(quantity))})
}

// UpdateQuantity sets the quantity of the matching line to the clamped raw
// value. Other lines are untouched; an unknown id is a no-op.
func (c *Cart) UpdateQuantity(productID string, raw float64) {
	q := ClampQuantity(raw)
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = q
		}
	}
}

// RemoveItem drops the matching line; an unknown id is a no-op
func (c *Cart) RemoveItem(productID string) {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
}

// Rows joins the cart with the latest product map without mutating either
func (c *Cart) Rows(products map[string]models.Product) []Row {
	rows := make([]Row, 0, len(c.items))
	for _, it := range c.items {
		row := Row{Item: it, Currency: FallbackCurrency}
		if p, ok := products[it.ProductID]; ok {
			row.Product = &p
			row.UnitPrice = p.Price
			row.Currency = p.Currency
		}
		row.LineTotal = row.UnitPrice * float64(it.Quantity)
		rows = append(rows, row)
	}
	return rows
}

// OrderRequest builds the payload submitted when the cart is checked out
func (c *Cart) OrderRequest(customerEmail string) models.OrderRequest {
	req := models.OrderRequest{
		Items:         make([]models.OrderItem, 0, len(c.items)),
		CustomerEmail: customerEmail,
	}
	for _, it := range c.items {
		req.Items = append(req.Items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  max(MinQuantity, it.Quantity),
		})
	}
	return req
}

// Total sums the line totals in float64. Repeated additions of prices such
// as 19.99 can drift by fractions of a cent; values are rounded only when
// formatted. The server computes the authoritative order total.
func Total(rows []Row) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.LineTotal
	}
	return total
}

// DisplayCurrency is the currency of the first resolved row
func DisplayCurrency(rows []Row) string {
	for _, r := range rows {
		if r.Product != nil && r.Product.Currency != "" {
			return r.Product.Currency
		}
	}
	return FallbackCurrency
}

// HasUnknownProducts reports whether any row failed to resolve
func HasUnknownProducts(rows []Row) bool {
	for _, r := range rows {
		if r.Unknown() {
			return true
		}
	}
	return false
}

// FormatMoney renders an amount as "USD 12.34"
func FormatMoney(currency string, amount float64) string {
	return fmt.Sprintf("%s %.2f", currency, amount)
}
