package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/infrastructure/marketplace"
)

const apiVersion = "2024-07"

// productsQuery pages the product catalog through the GraphQL Admin API.
// Only the first variant and the featured image are selected; multi-variant
// products are flattened to their first variant downstream.
const productsQuery = `query($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      cursor
      node {
        id
        title
        description
        vendor
        productType
        variants(first: 1) { edges { node { sku price inventoryQuantity } } }
        featuredImage { url }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const productsCountQuery = `{ productsCount { count } }`

// Client talks to one shop's GraphQL Admin API through the shared
// rate-limited fetcher, authenticating with the store's access token.
type Client struct {
	endpoint    string
	accessToken string
	fetcher     *marketplace.Fetcher
}

// NewClient creates a client for one shop.
func NewClient(shopDomain, accessToken string, fetcher *marketplace.Fetcher) *Client {
	return &Client{
		endpoint:    fmt.Sprintf("https://%s/admin/api/%s/graphql.json", normalizeDomain(shopDomain), apiVersion),
		accessToken: accessToken,
		fetcher:     fetcher,
	}
}

// normalizeDomain accepts bare shop names, myshopify domains and full URLs.
func normalizeDomain(d string) string {
	d = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(d, "https://"), "http://"), "/")
	if !strings.Contains(d, ".") {
		d = d + ".myshopify.com"
	}
	return d
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) graphql(ctx context.Context, query string, variables map[string]any, out any) error {
	headers := map[string]string{"X-Shopify-Access-Token": c.accessToken}

	var envelope graphqlEnvelope
	if err := c.fetcher.PostJSON(ctx, c.endpoint, headers, graphqlRequest{Query: query, Variables: variables}, &envelope); err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql query failed: %s", envelope.Errors[0].Message)
	}
	if envelope.Data == nil {
		return fmt.Errorf("%w: data field missing", domain.ErrMalformedResponse)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// CountProducts returns the shop's total product count.
func (c *Client) CountProducts(ctx context.Context) (int, error) {
	var data struct {
		ProductsCount struct {
			Count int `json:"count"`
		} `json:"productsCount"`
	}
	if err := c.graphql(ctx, productsCountQuery, nil, &data); err != nil {
		return 0, err
	}
	return data.ProductsCount.Count, nil
}

// ProductPage is one page of the product connection.
type ProductPage struct {
	Nodes       []json.RawMessage
	EndCursor   string
	HasNextPage bool
}

// FetchProducts returns at most first product nodes after the given cursor
// (empty cursor starts from the beginning).
func (c *Client) FetchProducts(ctx context.Context, after string, first int) (*ProductPage, error) {
	variables := map[string]any{"first": first}
	if after != "" {
		variables["after"] = after
	}

	var data struct {
		Products struct {
			Edges []struct {
				Cursor string          `json:"cursor"`
				Node   json.RawMessage `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"products"`
	}
	if err := c.graphql(ctx, productsQuery, variables, &data); err != nil {
		return nil, err
	}

	page := &ProductPage{
		EndCursor:   data.Products.PageInfo.EndCursor,
		HasNextPage: data.Products.PageInfo.HasNextPage,
	}
	for _, edge := range data.Products.Edges {
		page.Nodes = append(page.Nodes, edge.Node)
	}
	return page, nil
}
