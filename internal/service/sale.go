package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/enderNT/inventory-management/internal/domain"
	"github.com/enderNT/inventory-management/internal/event"
	"github.com/enderNT/inventory-management/internal/repository"
	apperrors "github.com/enderNT/inventory-management/pkg/errors"
)

// SaleService implements the sale submission workflow: it turns a cart
// snapshot into a durable sale, its line items, and a matching set of stock
// decrements.
//
// The three writes are separate remote calls with no transaction across
// them. The workflow keeps that explicit: strict ordering, one attempt per
// call, stop on first failure, stage-tagged errors, and no compensating
// writes. A failure after step A leaves real partial state behind; the
// SubmitError carries what reconciliation needs to find it.
type SaleService struct {
	repo     repository.SaleRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewSaleService creates a new sale service.
func NewSaleService(repo repository.SaleRepository, producer *event.Producer, logger *slog.Logger) *SaleService {
	return &SaleService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Submit validates the snapshot and drives the gateway through the three-step
// write sequence. Validation failures return before any remote call; each
// step runs exactly once, and step C decrements stock per line in cart
// insertion order, stopping at the first failure.
//
// The caller owns the cart lifecycle: on success it must reset the cart
// itself. Resubmitting a snapshot after a failure is a brand-new invocation
// and may double-apply whatever the failed attempt already committed.
func (s *SaleService) Submit(ctx context.Context, snap domain.CartSnapshot) (*domain.Receipt, error) {
	customer := strings.TrimSpace(snap.Customer)
	if customer == "" {
		return nil, apperrors.InvalidInput("customer required")
	}
	if len(snap.Lines) == 0 {
		return nil, apperrors.InvalidInput("no products selected")
	}

	// Re-check invariants the cart already guarantees; a corrupted snapshot
	// must not reach the store.
	for _, line := range snap.Lines {
		if line.Quantity < 1 {
			return nil, apperrors.InvalidInput("line quantity must be at least 1")
		}
		if line.UnitPrice < 0 {
			return nil, apperrors.InvalidInput("line unit price must not be negative")
		}
	}

	// Step A: create the sale header.
	saleID, err := s.repo.CreateSale(ctx, customer, snap.Total)
	if err != nil {
		return nil, &SubmitError{Stage: StageSale, Err: err}
	}

	s.logger.InfoContext(ctx, "sale created",
		slog.String("sale_id", saleID),
		slog.String("customer", customer),
		slog.Int64("total", snap.Total),
	)

	// Step B: create the line items.
	items := make([]domain.SaleItem, len(snap.Lines))
	for i, line := range snap.Lines {
		items[i] = domain.SaleItem{
			SaleID:    saleID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		}
	}

	if err := s.repo.CreateSaleItems(ctx, saleID, items); err != nil {
		s.logger.ErrorContext(ctx, "sale left without line items",
			slog.String("sale_id", saleID),
			slog.String("error", err.Error()),
		)
		return nil, &SubmitError{Stage: StageLineItems, Err: err}
	}

	// Step C: decrement stock per line, sequentially, in insertion order.
	// Decrements already applied when a later one fails are left in place;
	// the error names the product the loop stopped on.
	for _, line := range snap.Lines {
		if err := s.repo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.ErrorContext(ctx, "stock decrement failed mid-sale",
				slog.String("sale_id", saleID),
				slog.String("product_id", line.ProductID),
				slog.Int("quantity", line.Quantity),
				slog.String("error", err.Error()),
			)
			return nil, &SubmitError{Stage: StageStock, ProductID: line.ProductID, Err: err}
		}

		s.logger.DebugContext(ctx, "stock decremented",
			slog.String("sale_id", saleID),
			slog.String("product_id", line.ProductID),
			slog.Int("quantity", line.Quantity),
		)
	}

	// Publish event; log but do not fail on error.
	if err := s.producer.PublishSaleCompleted(ctx, saleID, customer, snap.Total, snap.Lines); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish sale.completed event",
			slog.String("sale_id", saleID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "sale completed",
		slog.String("sale_id", saleID),
		slog.Int64("total", snap.Total),
		slog.Int("item_count", len(items)),
	)

	return &domain.Receipt{
		SaleID:    saleID,
		Total:     snap.Total,
		ItemCount: len(items),
	}, nil
}

// ListSales returns all sales with their items, newest first.
func (s *SaleService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "list sales")
	}
	return sales, nil
}

// GetSale retrieves a sale by its ID.
func (s *SaleService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "get sale")
	}
	return sale, nil
}
