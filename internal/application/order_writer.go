package application

import (
	"context"
	"fmt"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/rs/zerolog"
)

// OrderBatchWriter persists order sync batches: the buyer profiles carried by
// the batch are deduplicated on external id and upserted first, then the
// orders themselves. The reported count is the number of orders written.
type OrderBatchWriter struct {
	orders    ports.OrderRepository
	customers ports.CustomerRepository
	logger    zerolog.Logger
}

// NewOrderBatchWriter creates a writer over the order and customer stores.
func NewOrderBatchWriter(orders ports.OrderRepository, customers ports.CustomerRepository, logger zerolog.Logger) *OrderBatchWriter {
	return &OrderBatchWriter{orders: orders, customers: customers, logger: logger}
}

// UpsertBatch implements ports.BatchWriter[domain.OrderRecord].
func (w *OrderBatchWriter) UpsertBatch(ctx context.Context, batch []domain.OrderRecord) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	customers := make([]domain.Customer, 0, len(batch))
	orders := make([]domain.Order, 0, len(batch))
	for _, rec := range batch {
		customers = append(customers, rec.Customer)
		orders = append(orders, rec.Order)
	}

	customers = Dedupe(customers, func(c domain.Customer) string { return c.ExternalID }, w.logger)
	if _, err := w.customers.UpsertBatch(ctx, customers); err != nil {
		return 0, fmt.Errorf("failed to upsert customers: %w", err)
	}

	return w.orders.UpsertBatch(ctx, orders)
}
