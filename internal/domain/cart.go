package domain

import (
	apperrors "github.com/enderNT/inventory-management/pkg/errors"
)

// CartLine is one product-quantity-price entry in an in-progress sale.
// UnitPrice is captured when the product is first added and is never
// refreshed from the catalog afterwards; Subtotal is always
// Quantity × UnitPrice.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// CartSnapshot is an immutable copy of a cart's state, handed to the sale
// submission workflow. Lines preserve insertion order.
type CartSnapshot struct {
	Customer string     `json:"customer"`
	Lines    []CartLine `json:"lines"`
	Total    int64      `json:"total"`
}

// Cart aggregates the working selection of products for one sale being
// composed at a register. It is pure in-memory state, owned by a single
// session; it is not safe for concurrent use and performs no I/O.
type Cart struct {
	customer string
	lines    []CartLine
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Start resets the cart to empty with no customer.
func (c *Cart) Start() {
	c.customer = ""
	c.lines = nil
}

// SetCustomer stores the customer identifier verbatim. An empty value is
// accepted here; it is only rejected at submission.
func (c *Cart) SetCustomer(customer string) {
	c.customer = customer
}

// Customer returns the current customer identifier.
func (c *Cart) Customer() string {
	return c.customer
}

// AddProduct adds one unit of the product. A product already in the cart has
// its quantity incremented; its unit price stays the one captured on first
// add, so catalog price changes do not affect an open cart.
func (c *Cart) AddProduct(p Product) {
	if i := c.findLine(p.ID); i >= 0 {
		line := &c.lines[i]
		line.Quantity++
		line.Subtotal = int64(line.Quantity) * line.UnitPrice
		return
	}

	c.lines = append(c.lines, CartLine{
		ProductID: p.ID,
		Quantity:  1,
		UnitPrice: p.Price,
		Subtotal:  p.Price,
	})
}

// UpdateQuantity sets the quantity for a line already in the cart and
// recomputes its subtotal. Quantities below 1 are ignored; a line leaves the
// cart only through RemoveProduct. Returns a not-found error if the product
// is not in the cart.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	i := c.findLine(productID)
	if i < 0 {
		return apperrors.NotFound("cart line", productID)
	}

	line := &c.lines[i]
	line.Quantity = quantity
	line.Subtotal = int64(quantity) * line.UnitPrice
	return nil
}

// RemoveProduct deletes the line for the given product; no-op if absent.
func (c *Cart) RemoveProduct(productID string) {
	i := c.findLine(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Total returns the sum of line subtotals. Always recomputed, never stored.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Subtotal
	}
	return total
}

// Len returns the number of distinct lines in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Snapshot returns a deep copy of the cart's lines, customer, and total for
// handoff to the submission workflow. The cart itself is not mutated.
func (c *Cart) Snapshot() CartSnapshot {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return CartSnapshot{
		Customer: c.customer,
		Lines:    lines,
		Total:    c.Total(),
	}
}

func (c *Cart) findLine(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
