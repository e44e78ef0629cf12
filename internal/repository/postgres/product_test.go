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
	"github.com/enderNT/inventory-management/internal/repository"
	"github.com/enderNT/inventory-management/pkg/database"
	apperrors "github.com/enderNT/inventory-management/pkg/errors"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newProductRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		ID:          "550e8400-e29b-41d4-a716-446655440001",
		Name:        "Coffee",
		Code:        "COF-001",
		Description: "House blend",
		Price:       1000,
		Stock:       50,
		Category:    "beverages",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productColumns() []string {
	return []string{"id", "name", "code", "description", "price", "stock", "category", "created_at", "updated_at"}
}

func productRow(p *domain.Product) []any {
	return []any{p.ID, p.Name, p.Code, p.Description, p.Price, p.Stock, p.Category, p.CreatedAt, p.UpdatedAt}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestProductRepository_Create_Success(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	p := &domain.Product{Name: "Coffee", Code: "COF-001", Description: "House blend", Price: 1000, Stock: 50, Category: "beverages"}

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(p.Name, p.Code, p.Description, p.Price, p.Stock, p.Category, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("new-id"))

	err := repo.Create(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, "new-id", p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_QueryError(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), p)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert product")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestProductRepository_GetByID_Success(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productColumns()).AddRow(productRow(p)...))

	result, err := repo.GetByID(context.Background(), p.ID)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Name, result.Name)
	assert.Equal(t, p.Code, result.Code)
	assert.Equal(t, p.Price, result.Price)
	assert.Equal(t, p.Stock, result.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestProductRepository_Update_Success(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(p.Name, p.Code, p.Description, p.Price, p.Stock, p.Category, pgxmock.AnyArg(), p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), p)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(p.Name, p.Code, p.Description, p.Price, p.Stock, p.Category, pgxmock.AnyArg(), p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestProductRepository_Delete_Success(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "prod-1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing-id")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestProductRepository_List_All(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products").
		WillReturnRows(pgxmock.NewRows(productColumns()).AddRow(productRow(p)...))

	products, err := repo.List(context.Background(), repository.ProductFilter{})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_WithSearch(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	p := sampleProduct()
	search := "cof"

	mock.ExpectQuery("SELECT .+ FROM products WHERE name ILIKE").
		WithArgs("%cof%").
		WillReturnRows(pgxmock.NewRows(productColumns()).AddRow(productRow(p)...))

	products, err := repo.List(context.Background(), repository.ProductFilter{Search: &search})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Empty(t *testing.T) {
	repo, mock := newProductRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products").
		WillReturnRows(pgxmock.NewRows(productColumns()))

	products, err := repo.List(context.Background(), repository.ProductFilter{})

	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}
