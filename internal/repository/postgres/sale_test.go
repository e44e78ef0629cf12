package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enderNT/inventory-management/internal/domain"
	"github.com/enderNT/inventory-management/pkg/database"
	apperrors "github.com/enderNT/inventory-management/pkg/errors"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newSaleRepo(t *testing.T) (*SaleRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewSaleRepository(mock)
	return repo, mock
}

func sampleItems(saleID string) []domain.SaleItem {
	return []domain.SaleItem{
		{SaleID: saleID, ProductID: "prod-1", Quantity: 2, UnitPrice: 1000, Subtotal: 2000},
		{SaleID: saleID, ProductID: "prod-2", Quantity: 1, UnitPrice: 500, Subtotal: 500},
	}
}

func saleItemColumns() []string {
	return []string{"id", "sale_id", "product_id", "name", "code", "quantity", "unit_price", "subtotal"}
}

// ---------------------------------------------------------------------------
// CreateSale
// ---------------------------------------------------------------------------

func TestSaleRepository_CreateSale_Success(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO sales").
		WithArgs("Jane Doe", int64(2500), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("sale-1"))

	id, err := repo.CreateSale(context.Background(), "Jane Doe", 2500)

	require.NoError(t, err)
	assert.Equal(t, "sale-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_CreateSale_QueryError(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO sales").
		WithArgs("Jane Doe", int64(2500), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	id, err := repo.CreateSale(context.Background(), "Jane Doe", 2500)

	assert.Empty(t, id)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert sale")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// CreateSaleItems
// ---------------------------------------------------------------------------

func TestSaleRepository_CreateSaleItems_Success(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	items := sampleItems("sale-1")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sale_items").
		WithArgs("sale-1", "prod-1", 2, int64(1000), int64(2000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO sale_items").
		WithArgs("sale-1", "prod-2", 1, int64(500), int64(500)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.CreateSaleItems(context.Background(), "sale-1", items)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_CreateSaleItems_RollbackOnFailure(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	items := sampleItems("sale-1")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sale_items").
		WithArgs("sale-1", "prod-1", 2, int64(1000), int64(2000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO sale_items").
		WithArgs("sale-1", "prod-2", 1, int64(500), int64(500)).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.CreateSaleItems(context.Background(), "sale-1", items)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert sale item")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// DecrementStock
// ---------------------------------------------------------------------------

func TestSaleRepository_DecrementStock_Success(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE products").
		WithArgs("prod-1", 2, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.DecrementStock(context.Background(), "prod-1", 2)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_DecrementStock_Insufficient(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	// Zero rows affected: the guarded UPDATE matched nothing, either the
	// product is gone or the decrement would go negative.
	mock.ExpectExec("UPDATE products").
		WithArgs("prod-1", 99, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.DecrementStock(context.Background(), "prod-1", 99)

	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_DecrementStock_ExecError(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE products").
		WithArgs("prod-1", 2, pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := repo.DecrementStock(context.Background(), "prod-1", 2)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List / GetByID
// ---------------------------------------------------------------------------

func TestSaleRepository_List_WithItems(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM sales").
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer", "total", "created_at"}).
			AddRow("sale-1", "Jane Doe", int64(2500), now))

	mock.ExpectQuery("SELECT .+ FROM sale_items").
		WithArgs([]string{"sale-1"}).
		WillReturnRows(pgxmock.NewRows(saleItemColumns()).
			AddRow(int64(1), "sale-1", "prod-1", "Coffee", "COF-001", 2, int64(1000), int64(2000)).
			AddRow(int64(2), "sale-1", "prod-2", "Tea", "TEA-001", 1, int64(500), int64(500)))

	sales, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "sale-1", sales[0].ID)
	require.Len(t, sales[0].Items, 2)
	assert.Equal(t, "Coffee", sales[0].Items[0].ProductName)
	assert.Equal(t, "TEA-001", sales[0].Items[1].ProductCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_List_Empty(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM sales").
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer", "total", "created_at"}))

	sales, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_GetByID_Success(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM sales WHERE id").
		WithArgs("sale-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer", "total", "created_at"}).
			AddRow("sale-1", "Jane Doe", int64(2500), now))

	mock.ExpectQuery("SELECT .+ FROM sale_items").
		WithArgs([]string{"sale-1"}).
		WillReturnRows(pgxmock.NewRows(saleItemColumns()).
			AddRow(int64(1), "sale-1", "prod-1", "Coffee", "COF-001", 2, int64(1000), int64(2000)))

	sale, err := repo.GetByID(context.Background(), "sale-1")

	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, "Jane Doe", sale.Customer)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(2000), sale.Items[0].Subtotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM sales WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	sale, err := repo.GetByID(context.Background(), "missing-id")

	assert.Nil(t, sale)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_GetByID_DeletedProductLeavesBlankJoin(t *testing.T) {
	repo, mock := newSaleRepo(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM sales WHERE id").
		WithArgs("sale-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer", "total", "created_at"}).
			AddRow("sale-1", "Jane Doe", int64(2000), now))

	// Product deleted since the sale: COALESCE yields empty name and code.
	mock.ExpectQuery("SELECT .+ FROM sale_items").
		WithArgs([]string{"sale-1"}).
		WillReturnRows(pgxmock.NewRows(saleItemColumns()).
			AddRow(int64(1), "sale-1", "prod-gone", "", "", 2, int64(1000), int64(2000)))

	sale, err := repo.GetByID(context.Background(), "sale-1")

	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Empty(t, sale.Items[0].ProductName)
	assert.Empty(t, sale.Items[0].ProductCode)
	assert.Equal(t, "prod-gone", sale.Items[0].ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
