package domain

import "time"

// Sale is a persisted record of a completed transaction. Once written, the
// sum of its item subtotals equals Total, and each item's product stock was
// decremented by that item's quantity at submission time.
type Sale struct {
	ID        string     `json:"id"`
	Customer  string     `json:"customer"`
	Total     int64      `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []SaleItem `json:"items"`
}

// SaleItem is a persisted sale line. The serial ID preserves insertion
// order. ProductName and ProductCode are joined from the catalog on reads
// for the detail view; they are not stored on the sale item row itself.
type SaleItem struct {
	ID          int64  `json:"id"`
	SaleID      string `json:"sale_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	ProductCode string `json:"product_code,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

// Receipt is the result of a successful sale submission.
type Receipt struct {
	SaleID    string `json:"sale_id"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"item_count"`
}
