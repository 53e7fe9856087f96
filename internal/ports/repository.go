package ports

import (
	"context"

	"channelsync-core/internal/domain"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Store, error)
	Update(ctx context.Context, store *domain.Store) error
	UpdateStatus(ctx context.Context, id string, status domain.StoreStatus) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines the interface for product persistence.
// UpsertBatch performs one bulk insert-or-update keyed on (user_id, shop_sku),
// updating all non-key fields on conflict, and returns the number of rows
// written. An empty batch is a zero-count no-op that issues no write.
// Duplicate-key conflicts that survive deduplication surface wrapped in
// domain.ErrDuplicateKey.
type ProductRepository interface {
	UpsertBatch(ctx context.Context, batch []domain.Product) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Product, error)
}

// OrderRepository defines the interface for order persistence. UpsertBatch is
// keyed on (store_id, commercial_id) with the same contract as products.
type OrderRepository interface {
	UpsertBatch(ctx context.Context, batch []domain.Order) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

// CustomerRepository defines the interface for customer persistence.
// UpsertBatch is keyed on external_id.
type CustomerRepository interface {
	UpsertBatch(ctx context.Context, batch []domain.Customer) (int, error)
}

// SyncLogRepository persists append-only sync audit rows.
type SyncLogRepository interface {
	Create(ctx context.Context, log *domain.SyncLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.SyncLog, error)
}
