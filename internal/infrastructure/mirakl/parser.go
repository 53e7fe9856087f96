package mirakl

import (
	"encoding/json"
	"time"

	"channelsync-core/internal/domain"
)

// rawOffer mirrors the fields of a Mirakl offer export record this pipeline
// consumes.
type rawOffer struct {
	ShopSKU            string  `json:"shop_sku"`
	ProductSKU         string  `json:"product_sku"`
	ProductTitle       string  `json:"product_title"`
	ProductDescription string  `json:"product_description"`
	ProductReferences  []struct {
		Reference string `json:"reference"`
	} `json:"product_references"`
	CategoryLabel   string  `json:"category_label"`
	ProductBrand    string  `json:"product_brand"`
	TotalPrice      float64 `json:"total_price"`
	CurrencyISOCode string  `json:"currency_iso_code"`
	Quantity        int     `json:"quantity"`
}

// ParseOffer maps one raw Mirakl offer to a normalized product. The mapping
// is best-effort: absent fields become empty defaults, never errors. The
// shared flag always starts false and no image is available from this feed.
func ParseOffer(raw json.RawMessage, userID, storeID string) domain.Product {
	var offer rawOffer
	// Unparseable records still yield a best-effort empty product.
	_ = json.Unmarshal(raw, &offer)

	product := domain.Product{
		UserID:      userID,
		StoreID:     storeID,
		Title:       offer.ProductTitle,
		Description: offer.ProductDescription,
		Price:       offer.TotalPrice,
		Currency:    offer.CurrencyISOCode,
		ShopSKU:     offer.ShopSKU,
		ProviderSKU: offer.ProductSKU,
		Shared:      false,
		ImageURL:    "",
		Inventory:   offer.Quantity,
		Category:    offer.CategoryLabel,
		Brand:       offer.ProductBrand,
	}
	if len(offer.ProductReferences) > 0 {
		product.Reference = offer.ProductReferences[0].Reference
	}
	return product
}

type rawAddress struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

type rawOrder struct {
	CommercialID string  `json:"commercial_id"`
	OrderID      string  `json:"order_id"`
	CreatedDate  string  `json:"created_date"`
	ShippedDate  string  `json:"shipped_date"`
	ReceivedDate string  `json:"received_date"`
	TotalPrice   float64 `json:"total_price"`
	CurrencyISO  string  `json:"currency_iso_code"`
	Commission   float64 `json:"total_commission"`
	OrderState   string  `json:"order_state"`
	Customer     struct {
		CustomerID      string     `json:"customer_id"`
		Email           string     `json:"email"`
		FirstName       string     `json:"firstname"`
		LastName        string     `json:"lastname"`
		ShippingAddress rawAddress `json:"shipping_address"`
		BillingAddress  rawAddress `json:"billing_address"`
	} `json:"customer"`
	ShippingAddress map[string]any `json:"shipping_address"`
	BillingAddress  map[string]any `json:"billing_address"`
}

// ParseOrder maps one raw Mirakl order to a normalized order plus the buyer
// profile carried by the same record. Customer city/country/phone come from
// the shipping address with the billing address as fallback; the customer's
// external id is their email, falling back to the channel customer id. The
// raw record is retained verbatim on the order for audit.
func ParseOrder(raw json.RawMessage, userID, storeID string) domain.OrderRecord {
	var o rawOrder
	_ = json.Unmarshal(raw, &o)

	externalID := o.Customer.Email
	if externalID == "" {
		externalID = o.Customer.CustomerID
	}

	customer := domain.Customer{
		ExternalID: externalID,
		FirstName:  o.Customer.FirstName,
		LastName:   o.Customer.LastName,
		City:       fallback(o.Customer.ShippingAddress.City, o.Customer.BillingAddress.City),
		Country:    fallback(o.Customer.ShippingAddress.Country, o.Customer.BillingAddress.Country),
		Phone:      fallback(o.Customer.ShippingAddress.Phone, o.Customer.BillingAddress.Phone),
	}

	order := domain.Order{
		StoreID:            storeID,
		UserID:             userID,
		CommercialID:       o.CommercialID,
		ProviderOrderID:    o.OrderID,
		CustomerExternalID: externalID,
		ShippingAddress:    o.ShippingAddress,
		BillingAddress:     o.BillingAddress,
		TotalAmount:        o.TotalPrice,
		Currency:           o.CurrencyISO,
		OrderedAt:          parseDate(o.CreatedDate),
		ShippedAt:          parseDate(o.ShippedDate),
		ReceivedAt:         parseDate(o.ReceivedDate),
		Status:             o.OrderState,
		Commission:         o.Commission,
		RawPayload:         raw,
	}

	return domain.OrderRecord{Order: order, Customer: customer}
}

func fallback(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	return secondary
}

// parseDate handles the ISO timestamps Mirakl emits; unparseable or empty
// values become nil rather than failing the record.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
