package domain

import "time"

// Product is a catalog entry. Price is in minor currency units (cents);
// Stock is the on-hand quantity and never goes negative (the store enforces
// this on decrement).
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
