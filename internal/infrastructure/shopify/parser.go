package shopify

import (
	"encoding/json"
	"strconv"

	"channelsync-core/internal/domain"
)

// rawProduct mirrors the GraphQL product node fields this pipeline selects.
type rawProduct struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Vendor      string `json:"vendor"`
	ProductType string `json:"productType"`
	Variants    struct {
		Edges []struct {
			Node struct {
				SKU               string `json:"sku"`
				Price             string `json:"price"`
				InventoryQuantity int    `json:"inventoryQuantity"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	FeaturedImage struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
}

// ParseProduct maps one GraphQL product node to a normalized product. The
// mapping is deliberately lossy: a multi-variant product is flattened to its
// first variant's price, SKU and inventory, and only the featured image URL
// is kept. Absent fields become empty defaults, never errors.
func ParseProduct(raw json.RawMessage, userID, storeID string) domain.Product {
	var node rawProduct
	_ = json.Unmarshal(raw, &node)

	product := domain.Product{
		UserID:      userID,
		StoreID:     storeID,
		Title:       node.Title,
		Description: node.Description,
		Currency:    "",
		ProviderSKU: node.ID,
		Shared:      false,
		ImageURL:    node.FeaturedImage.URL,
		Category:    node.ProductType,
		Brand:       node.Vendor,
	}
	if len(node.Variants.Edges) > 0 {
		v := node.Variants.Edges[0].Node
		product.ShopSKU = v.SKU
		product.Inventory = v.InventoryQuantity
		if price, err := strconv.ParseFloat(v.Price, 64); err == nil {
			product.Price = price
		}
	}
	return product
}
