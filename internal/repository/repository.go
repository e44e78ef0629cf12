package repository

import (
	"context"

	"github.com/enderNT/inventory-management/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	// Search matches case-insensitively against name, code, and category.
	Search *string
}

// ProductRepository defines the interface for catalog persistence operations.
type ProductRepository interface {
	// Create inserts a new product and fills in its assigned id and timestamps.
	Create(ctx context.Context, p *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Update overwrites a product's mutable attributes.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product from the catalog.
	Delete(ctx context.Context, id string) error

	// List returns products matching the given filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

// SaleRepository is the persistence gateway the sale submission workflow
// drives. The three write operations are independent calls with no shared
// transaction; the workflow layers its ordering and failure contract on top.
type SaleRepository interface {
	// CreateSale atomically inserts a sale header and returns the id the
	// store assigned to it.
	CreateSale(ctx context.Context, customer string, total int64) (string, error)

	// CreateSaleItems inserts one row per item, all tagged with saleID.
	// Any error is treated by callers as "no items committed".
	CreateSaleItems(ctx context.Context, saleID string, items []domain.SaleItem) error

	// DecrementStock atomically subtracts quantity from the product's stock.
	// It fails with ErrInsufficientStock, never clamping, if the result
	// would be negative. Safe under concurrent callers.
	DecrementStock(ctx context.Context, productID string, quantity int) error

	// List returns all sales with their items, newest first.
	List(ctx context.Context) ([]domain.Sale, error)

	// GetByID retrieves a sale by id, eagerly loading its items.
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
}
