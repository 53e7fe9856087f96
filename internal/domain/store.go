package domain

import "time"

// Platform identifies the external sales channel a store is connected to.
type Platform string

const (
	PlatformShopify Platform = "shopify"
	PlatformMirakl  Platform = "mirakl"
)

// StoreStatus represents the connection lifecycle of a store.
type StoreStatus string

const (
	StoreStatusPending      StoreStatus = "pending"
	StoreStatusActive       StoreStatus = "active"
	StoreStatusDisconnected StoreStatus = "disconnected"
	StoreStatusError        StoreStatus = "error"
)

// Credentials is the per-platform credential blob. Shopify stores carry an
// access token; Mirakl stores carry an API key plus an optional OAuth pair.
// It is encrypted before persistence and never serialized to API responses.
type Credentials struct {
	AccessToken  string `json:"access_token,omitempty"`
	APIKey       string `json:"api_key,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Store represents a connected external sales channel owned by one user.
type Store struct {
	ID       string   `json:"id" bson:"_id"`
	UserID   string   `json:"user_id" bson:"user_id"`
	Platform Platform `json:"platform" bson:"platform"`
	Name     string   `json:"name" bson:"name"`
	// Domain is the base URL of the channel (myshopify domain or Mirakl
	// marketplace URL).
	Domain string `json:"domain" bson:"domain"`
	// EncryptedCredentials holds the encrypted credential blob as stored.
	EncryptedCredentials string      `json:"-" bson:"credentials"`
	Status               StoreStatus `json:"status" bson:"status"`
	CreatedAt            time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" bson:"updated_at"`
}
