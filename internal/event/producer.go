package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/enderNT/inventory-management/internal/domain"
	pkgkafka "github.com/enderNT/inventory-management/pkg/kafka"
)

// Kafka topic constants for sale domain events.
const (
	TopicSaleCompleted = "pos.sale.completed"
)

// Aggregate type constant.
const AggregateTypeSale = "sale"

// Source identifier for events originating from this service.
const SourcePOS = "pos-service"

// SaleCompletedData is the payload for a sale.completed event. It carries the
// full line breakdown so a downstream reconciliation job can re-check totals
// and stock movements without reading the store.
type SaleCompletedData struct {
	SaleID   string             `json:"sale_id"`
	Customer string             `json:"customer"`
	Total    int64              `json:"total"`
	Items    []SaleItemData     `json:"items"`
}

// SaleItemData is the event payload for a sale line.
type SaleItemData struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// Producer publishes sale domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSaleCompleted publishes a sale.completed event with the sale snapshot.
func (p *Producer) PublishSaleCompleted(ctx context.Context, saleID, customer string, total int64, lines []domain.CartLine) error {
	items := make([]SaleItemData, len(lines))
	for i, line := range lines {
		items[i] = SaleItemData{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		}
	}

	data := SaleCompletedData{
		SaleID:   saleID,
		Customer: customer,
		Total:    total,
		Items:    items,
	}

	event, err := pkgkafka.NewEvent(TopicSaleCompleted, saleID, AggregateTypeSale, SourcePOS, data)
	if err != nil {
		return fmt.Errorf("create sale.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSaleCompleted, event); err != nil {
		return fmt.Errorf("publish sale.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published sale.completed event",
		slog.String("sale_id", saleID),
	)

	return nil
}
