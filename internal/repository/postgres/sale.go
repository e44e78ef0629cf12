package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/enderNT/inventory-management/internal/domain"
	"github.com/enderNT/inventory-management/pkg/database"
	apperrors "github.com/enderNT/inventory-management/pkg/errors"
)

// SaleRepository implements repository.SaleRepository using PostgreSQL.
// Each of the three write operations is a single independent statement (or
// transaction); there is deliberately no transaction spanning them — the
// submission workflow owns the cross-call failure contract.
type SaleRepository struct {
	pool database.DBTX
}

// NewSaleRepository creates a new PostgreSQL-backed sale repository.
func NewSaleRepository(pool database.DBTX) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// CreateSale inserts a sale header and returns the store-assigned id.
func (r *SaleRepository) CreateSale(ctx context.Context, customer string, total int64) (string, error) {
	query := `
		INSERT INTO sales (customer, total, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "CreateSale", query)

	var id string
	err := r.pool.QueryRow(ctx, query, customer, total, time.Now().UTC()).Scan(&id)
	end(err)
	if err != nil {
		return "", fmt.Errorf("insert sale: %w", err)
	}

	return id, nil
}

// CreateSaleItems inserts all items for the given sale in one transaction.
func (r *SaleRepository) CreateSaleItems(ctx context.Context, saleID string, items []domain.SaleItem) error {
	query := `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5)`

	ctx, end := database.TraceQuery(ctx, "CreateSaleItems", query)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		end(err)
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, item := range items {
		if _, err := tx.Exec(ctx, query,
			saleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		); err != nil {
			end(err)
			return fmt.Errorf("insert sale item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		end(err)
		return fmt.Errorf("commit transaction: %w", err)
	}

	end(nil)
	return nil
}

// DecrementStock atomically subtracts quantity from the product's stock. The
// WHERE predicate enforces the non-negative invariant server-side; a sale
// racing another register can never drive stock below zero.
func (r *SaleRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1 AND stock >= $2`

	ctx, end := database.TraceQuery(ctx, "DecrementStock", query)

	ct, err := r.pool.Exec(ctx, query, productID, quantity, time.Now().UTC())
	end(err)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	// Zero rows means the product is missing or its stock would go negative.
	if ct.RowsAffected() == 0 {
		return apperrors.InsufficientStock(productID)
	}

	return nil
}

// List returns all sales with their items, newest first.
func (r *SaleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	query := `
		SELECT id, customer, total, created_at
		FROM sales
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0)
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.Customer, &s.Total, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale rows: %w", err)
	}

	// Batch-load items for all sales in a single query to avoid N+1.
	if len(sales) > 0 {
		saleIDs := make([]string, len(sales))
		for i := range sales {
			saleIDs[i] = sales[i].ID
		}

		itemsBySaleID, err := r.loadItems(ctx, saleIDs)
		if err != nil {
			return nil, err
		}

		for i := range sales {
			if items, ok := itemsBySaleID[sales[i].ID]; ok {
				sales[i].Items = items
			} else {
				sales[i].Items = []domain.SaleItem{}
			}
		}
	}

	return sales, nil
}

// GetByID retrieves a sale by id, eagerly loading its items.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT id, customer, total, created_at
		FROM sales
		WHERE id = $1`

	var s domain.Sale
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Customer, &s.Total, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}

	itemsBySaleID, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	if items, ok := itemsBySaleID[id]; ok {
		s.Items = items
	} else {
		s.Items = []domain.SaleItem{}
	}

	return &s, nil
}

// loadItems fetches the items for the given sales, joined to the catalog for
// product name and code. Products deleted after the sale leave those fields
// empty rather than dropping the item.
func (r *SaleRepository) loadItems(ctx context.Context, saleIDs []string) (map[string][]domain.SaleItem, error) {
	query := `
		SELECT si.id, si.sale_id, si.product_id, COALESCE(p.name, ''), COALESCE(p.code, ''),
			   si.quantity, si.unit_price, si.subtotal
		FROM sale_items si
		LEFT JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1)
		ORDER BY si.id`

	rows, err := r.pool.Query(ctx, query, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()

	itemsBySaleID := make(map[string][]domain.SaleItem, len(saleIDs))
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &item.ProductCode,
			&item.Quantity, &item.UnitPrice, &item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		itemsBySaleID[item.SaleID] = append(itemsBySaleID[item.SaleID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale item rows: %w", err)
	}

	return itemsBySaleID, nil
}
