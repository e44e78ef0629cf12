package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/enderNT/inventory-management/internal/domain"
	"github.com/enderNT/inventory-management/internal/repository"
	apperrors "github.com/enderNT/inventory-management/pkg/errors"
)

func newTestCatalogService(repo *mockProductRepository) *CatalogService {
	return NewCatalogService(repo, newTestLogger())
}

func validCreateInput() *CreateProductInput {
	return &CreateProductInput{
		Name:     "Coffee",
		Code:     "COF-001",
		Price:    1000,
		Stock:    50,
		Category: "beverages",
	}
}

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.CreateProduct(ctx, validCreateInput())

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Coffee", product.Name)
	assert.Equal(t, "COF-001", product.Code)
	assert.Equal(t, int64(1000), product.Price)
	assert.Equal(t, 50, product.Stock)
	assert.NotZero(t, product.CreatedAt)
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)

	repo.AssertExpectations(t)
}

func TestCreateProduct_TrimsNameAndCode(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	input := validCreateInput()
	input.Name = "  Coffee  "
	input.Code = " COF-001 "

	product, err := svc.CreateProduct(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "Coffee", product.Name)
	assert.Equal(t, "COF-001", product.Code)
}

func TestCreateProduct_MissingName(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	input := validCreateInput()
	input.Name = "   "

	product, err := svc.CreateProduct(ctx, input)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_MissingCode(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	input := validCreateInput()
	input.Code = ""

	product, err := svc.CreateProduct(ctx, input)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	input := validCreateInput()
	input.Price = -1

	product, err := svc.CreateProduct(ctx, input)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateProduct_NegativeStock(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	input := validCreateInput()
	input.Stock = -5

	product, err := svc.CreateProduct(ctx, input)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	existing := coffeeProduct()
	repo.On("GetByID", ctx, prodA).Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	newPrice := int64(1200)
	product, err := svc.UpdateProduct(ctx, prodA, &UpdateProductInput{Price: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, int64(1200), product.Price)
	assert.Equal(t, "Coffee", product.Name)

	repo.AssertExpectations(t)
}

func TestUpdateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, prodA).Return(coffeeProduct(), nil)

	badPrice := int64(-10)
	product, err := svc.UpdateProduct(ctx, prodA, &UpdateProductInput{Price: &badPrice})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	product, err := svc.UpdateProduct(ctx, "missing", &UpdateProductInput{})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, prodA).Return(nil)

	err := svc.DeleteProduct(ctx, prodA)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListProducts_PassesFilter(t *testing.T) {
	repo := new(mockProductRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	search := "coffee"
	filter := repository.ProductFilter{Search: &search}
	repo.On("List", ctx, filter).Return([]domain.Product{*coffeeProduct()}, nil)

	products, err := svc.ListProducts(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, products, 1)
	repo.AssertExpectations(t)
}
