package domain

import (
	"encoding/json"
	"time"
)

// Order is a purchase pulled from a channel. The pair (StoreID, CommercialID)
// is the natural uniqueness key used for upserts. Orders are only ever
// produced by sync, never by client edits.
type Order struct {
	ID              string `json:"id" bson:"_id,omitempty"`
	StoreID         string `json:"store_id" bson:"store_id"`
	UserID          string `json:"user_id" bson:"user_id"`
	CommercialID    string `json:"commercial_id" bson:"commercial_id"`
	ProviderOrderID string `json:"provider_order_id" bson:"provider_order_id"`
	// CustomerExternalID references the buyer profile by its channel-native
	// identifier, typically an email address.
	CustomerExternalID string         `json:"customer_external_id" bson:"customer_external_id"`
	ShippingAddress    map[string]any `json:"shipping_address,omitempty" bson:"shipping_address,omitempty"`
	BillingAddress     map[string]any `json:"billing_address,omitempty" bson:"billing_address,omitempty"`
	TotalAmount        float64        `json:"total_amount" bson:"total_amount"`
	Currency           string         `json:"currency" bson:"currency"`
	OrderedAt          *time.Time     `json:"ordered_at,omitempty" bson:"ordered_at,omitempty"`
	ShippedAt          *time.Time     `json:"shipped_at,omitempty" bson:"shipped_at,omitempty"`
	ReceivedAt         *time.Time     `json:"received_at,omitempty" bson:"received_at,omitempty"`
	Status             string         `json:"status" bson:"status"`
	Commission         float64        `json:"commission" bson:"commission"`
	// RawPayload retains the upstream record verbatim for audit.
	RawPayload json.RawMessage `json:"-" bson:"raw_payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" bson:"updated_at"`
}

// OrderRecord pairs an order with the buyer profile parsed from the same
// upstream record. One order sync batch upserts both sides.
type OrderRecord struct {
	Order    Order
	Customer Customer
}
