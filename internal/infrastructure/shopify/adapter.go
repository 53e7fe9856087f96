package shopify

import (
	"context"
	"encoding/json"

	"channelsync-core/internal/domain"
)

// ProductAdapter feeds the generic orchestrator with Shopify products. The
// GraphQL Admin API paginates by cursor rather than offset, so the adapter
// keeps the end cursor of the last fetched page and ignores the numeric
// offset beyond its ordering guarantee. One adapter serves exactly one sync
// run; it is never reused.
type ProductAdapter struct {
	client *Client
	store  *domain.Store

	cursor    string
	exhausted bool
}

// NewProductAdapter creates an adapter for one sync run of one store.
func NewProductAdapter(client *Client, store *domain.Store) *ProductAdapter {
	return &ProductAdapter{client: client, store: store}
}

func (a *ProductAdapter) Platform() domain.Platform { return domain.PlatformShopify }
func (a *ProductAdapter) Kind() domain.SyncType     { return domain.SyncTypeProducts }

func (a *ProductAdapter) Count(ctx context.Context) (int, error) {
	return a.client.CountProducts(ctx)
}

func (a *ProductAdapter) FetchPage(ctx context.Context, offset, max int) ([]json.RawMessage, error) {
	if a.exhausted {
		return nil, nil
	}
	page, err := a.client.FetchProducts(ctx, a.cursor, max)
	if err != nil {
		return nil, err
	}
	a.cursor = page.EndCursor
	a.exhausted = !page.HasNextPage
	return page.Nodes, nil
}

func (a *ProductAdapter) Parse(raw json.RawMessage) domain.Product {
	return ParseProduct(raw, a.store.UserID, a.store.ID)
}

func (a *ProductAdapter) Key(p domain.Product) string { return p.ShopSKU }

func (a *ProductAdapter) ExtraKeys() []func(domain.Product) string { return nil }
