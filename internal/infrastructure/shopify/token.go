package shopify

import (
	"context"
	"fmt"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// TokenChecker validates a store's access token by making the lightest
// authenticated call the Admin API offers. Shopify access tokens don't
// expire, but they can be revoked.
type TokenChecker struct {
	logger zerolog.Logger
}

// NewTokenChecker creates a token checker.
func NewTokenChecker(logger zerolog.Logger) *TokenChecker {
	return &TokenChecker{logger: logger}
}

// Check verifies that the token can read the shop resource.
func (t *TokenChecker) Check(ctx context.Context, shopDomain, accessToken string) error {
	client, err := goshopify.NewClient(goshopify.App{}, normalizeDomain(shopDomain), accessToken)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	if _, err := client.Shop.Get(ctx, nil); err != nil {
		t.logger.Warn().
			Err(err).
			Str("shop", shopDomain).
			Msg("Access token validation failed")
		return fmt.Errorf("shopify token check failed: %w", err)
	}
	return nil
}
