package mirakl

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOfferMapsFields(t *testing.T) {
	raw := json.RawMessage(`{
		"shop_sku": "SKU-1",
		"product_sku": "MIR-99",
		"product_title": "Wireless Mouse",
		"product_description": "A mouse",
		"product_references": [{"reference": "EAN-123"}, {"reference": "EAN-456"}],
		"category_label": "Electronics",
		"product_brand": "Acme",
		"total_price": 24.99,
		"currency_iso_code": "EUR",
		"quantity": 12
	}`)

	p := ParseOffer(raw, "user-1", "store-1")

	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "store-1", p.StoreID)
	assert.Equal(t, "SKU-1", p.ShopSKU)
	assert.Equal(t, "MIR-99", p.ProviderSKU)
	assert.Equal(t, "Wireless Mouse", p.Title)
	assert.Equal(t, "A mouse", p.Description)
	assert.Equal(t, 24.99, p.Price)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, 12, p.Inventory)
	assert.Equal(t, "Electronics", p.Category)
	assert.Equal(t, "Acme", p.Brand)
	// Only the first reference is kept.
	assert.Equal(t, "EAN-123", p.Reference)
	assert.False(t, p.Shared)
	assert.Empty(t, p.ImageURL)
}

func TestParseOfferAbsentFieldsBecomeDefaults(t *testing.T) {
	p := ParseOffer(json.RawMessage(`{"shop_sku":"SKU-2"}`), "user-1", "store-1")

	assert.Equal(t, "SKU-2", p.ShopSKU)
	assert.Empty(t, p.Reference)
	assert.Zero(t, p.Price)
	assert.Zero(t, p.Inventory)
}

func TestParseOfferUnparseableRecord(t *testing.T) {
	p := ParseOffer(json.RawMessage(`not json`), "user-1", "store-1")

	assert.Equal(t, "user-1", p.UserID)
	assert.Empty(t, p.ShopSKU)
}

func TestParseOrderMapsFields(t *testing.T) {
	raw := json.RawMessage(`{
		"commercial_id": "ORD-100",
		"order_id": "MIR-ORD-1",
		"created_date": "2024-03-10T14:30:00Z",
		"shipped_date": "2024-03-12T09:00:00",
		"total_price": 120.5,
		"currency_iso_code": "EUR",
		"total_commission": 12.05,
		"order_state": "SHIPPED",
		"customer": {
			"customer_id": "CUST-7",
			"email": "jane@example.com",
			"firstname": "Jane",
			"lastname": "Doe",
			"shipping_address": {"city": "Paris", "country": "FR", "phone": ""},
			"billing_address": {"city": "Lyon", "country": "FR", "phone": "+33 1 23"}
		},
		"shipping_address": {"street": "1 Rue de Rivoli"},
		"billing_address": {"street": "2 Rue de Lyon"}
	}`)

	rec := ParseOrder(raw, "user-1", "store-1")

	assert.Equal(t, "ORD-100", rec.Order.CommercialID)
	assert.Equal(t, "MIR-ORD-1", rec.Order.ProviderOrderID)
	assert.Equal(t, "store-1", rec.Order.StoreID)
	assert.Equal(t, "user-1", rec.Order.UserID)
	assert.Equal(t, 120.5, rec.Order.TotalAmount)
	assert.Equal(t, "EUR", rec.Order.Currency)
	assert.Equal(t, 12.05, rec.Order.Commission)
	assert.Equal(t, "SHIPPED", rec.Order.Status)
	assert.Equal(t, map[string]any{"street": "1 Rue de Rivoli"}, rec.Order.ShippingAddress)
	assert.JSONEq(t, string(raw), string(rec.Order.RawPayload))

	require.NotNil(t, rec.Order.OrderedAt)
	assert.Equal(t, time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC), rec.Order.OrderedAt.UTC())
	require.NotNil(t, rec.Order.ShippedAt)
	assert.Nil(t, rec.Order.ReceivedAt)

	assert.Equal(t, "jane@example.com", rec.Customer.ExternalID)
	assert.Equal(t, "jane@example.com", rec.Order.CustomerExternalID)
	assert.Equal(t, "Jane", rec.Customer.FirstName)
	assert.Equal(t, "Doe", rec.Customer.LastName)
	// Shipping address wins where present, billing fills the gaps.
	assert.Equal(t, "Paris", rec.Customer.City)
	assert.Equal(t, "FR", rec.Customer.Country)
	assert.Equal(t, "+33 1 23", rec.Customer.Phone)
}

func TestParseOrderFallsBackToCustomerID(t *testing.T) {
	raw := json.RawMessage(`{"commercial_id":"ORD-1","customer":{"customer_id":"CUST-9"}}`)

	rec := ParseOrder(raw, "user-1", "store-1")

	assert.Equal(t, "CUST-9", rec.Customer.ExternalID)
	assert.Equal(t, "CUST-9", rec.Order.CustomerExternalID)
}

func TestParseDateLayouts(t *testing.T) {
	cases := map[string]bool{
		"2024-03-10T14:30:00Z":      true,
		"2024-03-10T14:30:00+02:00": true,
		"2024-03-10T14:30:00":       true,
		"2024-03-10":                true,
		"10/03/2024":                false,
		"":                          false,
	}
	for input, want := range cases {
		got := parseDate(input)
		if want {
			assert.NotNil(t, got, "input %q", input)
		} else {
			assert.Nil(t, got, "input %q", input)
		}
	}
}
