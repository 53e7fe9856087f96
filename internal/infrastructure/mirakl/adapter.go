package mirakl

import (
	"context"
	"encoding/json"

	"channelsync-core/internal/domain"
)

// OfferAdapter feeds the generic orchestrator with Mirakl offers mapped to
// products. Dedup runs on shop SKU first, then on reference.
type OfferAdapter struct {
	client *Client
	store  *domain.Store
}

// NewOfferAdapter creates an adapter for one sync run of one store.
func NewOfferAdapter(client *Client, store *domain.Store) *OfferAdapter {
	return &OfferAdapter{client: client, store: store}
}

func (a *OfferAdapter) Platform() domain.Platform { return domain.PlatformMirakl }
func (a *OfferAdapter) Kind() domain.SyncType     { return domain.SyncTypeProducts }

func (a *OfferAdapter) Count(ctx context.Context) (int, error) {
	return a.client.CountOffers(ctx)
}

func (a *OfferAdapter) FetchPage(ctx context.Context, offset, max int) ([]json.RawMessage, error) {
	return a.client.FetchOffers(ctx, offset, max)
}

func (a *OfferAdapter) Parse(raw json.RawMessage) domain.Product {
	return ParseOffer(raw, a.store.UserID, a.store.ID)
}

func (a *OfferAdapter) Key(p domain.Product) string { return p.ShopSKU }

func (a *OfferAdapter) ExtraKeys() []func(domain.Product) string {
	return []func(domain.Product) string{
		func(p domain.Product) string { return p.Reference },
	}
}

// OrderAdapter feeds the generic orchestrator with Mirakl orders mapped to
// order/customer pairs, deduplicated on commercial id.
type OrderAdapter struct {
	client *Client
	store  *domain.Store
}

// NewOrderAdapter creates an adapter for one sync run of one store.
func NewOrderAdapter(client *Client, store *domain.Store) *OrderAdapter {
	return &OrderAdapter{client: client, store: store}
}

func (a *OrderAdapter) Platform() domain.Platform { return domain.PlatformMirakl }
func (a *OrderAdapter) Kind() domain.SyncType     { return domain.SyncTypeOrders }

func (a *OrderAdapter) Count(ctx context.Context) (int, error) {
	return a.client.CountOrders(ctx)
}

func (a *OrderAdapter) FetchPage(ctx context.Context, offset, max int) ([]json.RawMessage, error) {
	return a.client.FetchOrders(ctx, offset, max)
}

func (a *OrderAdapter) Parse(raw json.RawMessage) domain.OrderRecord {
	return ParseOrder(raw, a.store.UserID, a.store.ID)
}

func (a *OrderAdapter) Key(rec domain.OrderRecord) string { return rec.Order.CommercialID }

func (a *OrderAdapter) ExtraKeys() []func(domain.OrderRecord) string { return nil }
