package mirakl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/infrastructure/marketplace"
)

// Client is a thin typed wrapper around a Mirakl marketplace API. All
// requests go through the shared rate-limited fetcher; the API key travels in
// the Authorization header as Mirakl expects.
type Client struct {
	baseURL string
	apiKey  string
	fetcher *marketplace.Fetcher
}

// NewClient creates a client for one marketplace instance.
func NewClient(baseURL, apiKey string, fetcher *marketplace.Fetcher) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		fetcher: fetcher,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": c.apiKey}
}

type offersResponse struct {
	Offers     *[]json.RawMessage `json:"offers"`
	TotalCount int                `json:"total_count"`
}

type ordersResponse struct {
	Orders     *[]json.RawMessage `json:"orders"`
	TotalCount int                `json:"total_count"`
}

// CountOffers returns the marketplace's total offer count.
func (c *Client) CountOffers(ctx context.Context) (int, error) {
	var resp offersResponse
	url := fmt.Sprintf("%s/api/offers?offset=0&max=1", c.baseURL)
	if err := c.fetcher.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return 0, err
	}
	return resp.TotalCount, nil
}

// FetchOffers returns at most max raw offers starting at offset.
func (c *Client) FetchOffers(ctx context.Context, offset, max int) ([]json.RawMessage, error) {
	var resp offersResponse
	url := fmt.Sprintf("%s/api/offers?offset=%d&max=%d", c.baseURL, offset, max)
	if err := c.fetcher.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, err
	}
	if resp.Offers == nil {
		return nil, fmt.Errorf("%w: offers array missing", domain.ErrMalformedResponse)
	}
	return *resp.Offers, nil
}

// CountOrders returns the marketplace's total order count.
func (c *Client) CountOrders(ctx context.Context) (int, error) {
	var resp ordersResponse
	url := fmt.Sprintf("%s/api/orders?offset=0&max=1", c.baseURL)
	if err := c.fetcher.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return 0, err
	}
	return resp.TotalCount, nil
}

// FetchOrders returns at most max raw orders starting at offset.
func (c *Client) FetchOrders(ctx context.Context, offset, max int) ([]json.RawMessage, error) {
	var resp ordersResponse
	url := fmt.Sprintf("%s/api/orders?offset=%d&max=%d", c.baseURL, offset, max)
	if err := c.fetcher.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return nil, err
	}
	if resp.Orders == nil {
		return nil, fmt.Errorf("%w: orders array missing", domain.ErrMalformedResponse)
	}
	return *resp.Orders, nil
}

// Ping makes the cheapest authenticated call the API offers, to check that
// the key works.
func (c *Client) Ping(ctx context.Context) error {
	var resp json.RawMessage
	url := fmt.Sprintf("%s/api/version", c.baseURL)
	if err := c.fetcher.GetJSON(ctx, url, c.headers(), &resp); err != nil {
		return fmt.Errorf("mirakl ping failed: %w", err)
	}
	return nil
}
