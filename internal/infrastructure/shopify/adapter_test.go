package shopify

import (
	"context"
	"encoding/json"
	"testing"

	"channelsync-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductAdapterStopsAfterLastPage(t *testing.T) {
	adapter := NewProductAdapter(nil, &domain.Store{ID: "store-1", UserID: "user-1"})
	adapter.exhausted = true

	page, err := adapter.FetchPage(context.Background(), 100, 100)

	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestProductAdapterIdentity(t *testing.T) {
	adapter := NewProductAdapter(nil, &domain.Store{ID: "store-1", UserID: "user-1"})

	assert.Equal(t, domain.PlatformShopify, adapter.Platform())
	assert.Equal(t, domain.SyncTypeProducts, adapter.Kind())
	assert.Nil(t, adapter.ExtraKeys())

	p := adapter.Parse(json.RawMessage(`{"variants":{"edges":[{"node":{"sku":"SKU-9"}}]}}`))
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "SKU-9", adapter.Key(p))
}
