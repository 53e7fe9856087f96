package domain

import "time"

// Product is a catalog entry, either merchant-authored (empty StoreID) or
// imported from a connected channel. The pair (UserID, ShopSKU) is the natural
// uniqueness key used for upserts.
type Product struct {
	ID          string  `json:"id" bson:"_id,omitempty"`
	UserID      string  `json:"user_id" bson:"user_id"`
	StoreID     string  `json:"store_id,omitempty" bson:"store_id,omitempty"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Currency    string  `json:"currency" bson:"currency"`
	// ShopSKU is the merchant's own stock-keeping unit, distinct from the
	// upstream platform's canonical product SKU.
	ShopSKU     string    `json:"shop_sku" bson:"shop_sku"`
	ProviderSKU string    `json:"provider_sku" bson:"provider_sku"`
	Shared      bool      `json:"shared" bson:"shared"`
	ImageURL    string    `json:"image_url" bson:"image_url"`
	Inventory   int       `json:"inventory" bson:"inventory"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Brand       string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Reference   string    `json:"reference,omitempty" bson:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
