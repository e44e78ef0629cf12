package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/enderNT/inventory-management/internal/domain"
	"github.com/enderNT/inventory-management/internal/repository"
	apperrors "github.com/enderNT/inventory-management/pkg/errors"
)

// CartService holds the in-progress cart for each register session and
// applies user actions to it. Each cart is the pure in-memory aggregate from
// the domain package; this service only owns the register-to-cart map and
// the catalog lookups needed to price an added product.
type CartService struct {
	products repository.ProductRepository
	logger   *slog.Logger

	mu    sync.Mutex
	carts map[string]*domain.Cart
}

// NewCartService creates a new cart service.
func NewCartService(products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		products: products,
		logger:   logger,
		carts:    make(map[string]*domain.Cart),
	}
}

// cart returns the register's cart, creating an empty one on first use.
// Callers must hold s.mu.
func (s *CartService) cart(registerID string) *domain.Cart {
	c, ok := s.carts[registerID]
	if !ok {
		c = domain.NewCart()
		s.carts[registerID] = c
	}
	return c
}

// Start resets the register's cart to empty.
func (s *CartService) Start(registerID string) domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(registerID)
	c.Start()
	return c.Snapshot()
}

// SetCustomer stores the customer identifier on the register's cart.
func (s *CartService) SetCustomer(registerID, customer string) domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(registerID)
	c.SetCustomer(customer)
	return c.Snapshot()
}

// AddProduct adds one unit of the product to the register's cart, capturing
// the catalog price at first add. An unknown product id is a no-op.
func (s *CartService) AddProduct(ctx context.Context, registerID, productID string) (domain.CartSnapshot, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "add ignored for unknown product",
				slog.String("register_id", registerID),
				slog.String("product_id", productID),
			)
			return s.Get(registerID), nil
		}
		return domain.CartSnapshot{}, apperrors.Wrap(err, "look up product")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(registerID)
	c.AddProduct(*p)
	return c.Snapshot(), nil
}

// UpdateQuantity sets the quantity of a line already in the cart. Quantities
// below 1 are silently ignored; an unknown product id returns not-found.
func (s *CartService) UpdateQuantity(registerID, productID string, quantity int) (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(registerID)
	if err := c.UpdateQuantity(productID, quantity); err != nil {
		return domain.CartSnapshot{}, err
	}
	return c.Snapshot(), nil
}

// RemoveProduct deletes the line for the given product; no-op if absent.
func (s *CartService) RemoveProduct(registerID, productID string) domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(registerID)
	c.RemoveProduct(productID)
	return c.Snapshot()
}

// Get returns the current snapshot of the register's cart.
func (s *CartService) Get(registerID string) domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart(registerID).Snapshot()
}
