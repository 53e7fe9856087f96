// Package validator checks store credentials against the platform they
// belong to with a lightweight authenticated ping.
package validator

import (
	"context"
	"fmt"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/infrastructure/marketplace"
	"channelsync-core/internal/infrastructure/mirakl"
	"channelsync-core/internal/infrastructure/shopify"

	"github.com/rs/zerolog"
)

// Validator implements ports.CredentialValidator for all supported platforms.
type Validator struct {
	fetcher *marketplace.Fetcher
	tokens  *shopify.TokenChecker
	logger  zerolog.Logger
}

// New creates a credential validator over the shared fetcher.
func New(fetcher *marketplace.Fetcher, logger zerolog.Logger) *Validator {
	return &Validator{
		fetcher: fetcher,
		tokens:  shopify.NewTokenChecker(logger),
		logger:  logger,
	}
}

// Validate pings the platform with the store's credentials.
func (v *Validator) Validate(ctx context.Context, store *domain.Store, creds domain.Credentials) error {
	switch store.Platform {
	case domain.PlatformShopify:
		return v.tokens.Check(ctx, store.Domain, creds.AccessToken)
	case domain.PlatformMirakl:
		return mirakl.NewClient(store.Domain, creds.APIKey, v.fetcher).Ping(ctx)
	default:
		return fmt.Errorf("unsupported platform %q", store.Platform)
	}
}
