// Package shopify implements the GraphQL Admin API client used to pull
// orders from the store.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/club21/orderfeed/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the Admin API (20MB)
const maxResponseSize = 20 * 1024 * 1024

var (
	// ErrAPIUnavailable indicates the Admin API could not be reached
	ErrAPIUnavailable = errors.New("shopify: api unavailable")
	// ErrRequestFailed indicates the Admin API returned a non-success status
	ErrRequestFailed = errors.New("shopify: request failed")
	// ErrGraphQL indicates the response carried a top-level errors array
	ErrGraphQL = errors.New("shopify: graphql error")
)

// OrderSummary is one entry of the paginated order listing.
type OrderSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	FulfillmentStatus string `json:"displayFulfillmentStatus"`
}

// Client talks to the Shopify GraphQL Admin API.
type Client struct {
	config     *config.ShopifyConfig
	httpClient *http.Client
	logger     *zap.Logger
	endpoint   string
}

// Option customizes the client.
type Option func(*Client)

// WithEndpoint overrides the computed Admin API endpoint. Used by tests
// and by stores fronted by a proxy.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Shopify Admin API client with the given configuration.
func NewClient(cfg *config.ShopifyConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("shopify: config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		endpoint: fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/graphql.json",
			cfg.StoreName, cfg.APIVersion),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// graphqlRequest is the JSON body of an Admin API call.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// execute posts one GraphQL document and returns the raw response body.
// A top-level errors array is treated as fatal.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	if errs := gjson.GetBytes(body, "errors"); errs.Exists() && errs.IsArray() && len(errs.Array()) > 0 {
		first := errs.Array()[0].Get("message").String()
		return nil, fmt.Errorf("%w: %s", ErrGraphQL, first)
	}

	return body, nil
}

// ListOrders walks the paginated order listing for the given search
// filter and returns every matching summary. The client pauses for the
// configured delay between pages.
func (c *Client) ListOrders(ctx context.Context, filter string) ([]OrderSummary, error) {
	pageSize := c.config.PageSize
	if pageSize <= 0 || pageSize > 250 {
		pageSize = 250
	}

	var (
		summaries []OrderSummary
		cursor    string
	)
	for page := 1; ; page++ {
		variables := map[string]any{"first": pageSize}
		if filter != "" {
			variables["query"] = filter
		}
		if cursor != "" {
			variables["after"] = cursor
		}

		body, err := c.execute(ctx, ordersQuery, variables)
		if err != nil {
			return nil, fmt.Errorf("shopify: list orders page %d: %w", page, err)
		}

		nodes := gjson.GetBytes(body, "data.orders.nodes")
		for _, node := range nodes.Array() {
			summaries = append(summaries, OrderSummary{
				ID:                node.Get("id").String(),
				Name:              node.Get("name").String(),
				FulfillmentStatus: node.Get("displayFulfillmentStatus").String(),
			})
		}

		pageInfo := gjson.GetBytes(body, "data.orders.pageInfo")
		if !pageInfo.Get("hasNextPage").Bool() {
			break
		}
		cursor = pageInfo.Get("endCursor").String()

		c.logger.Debug("fetched order page",
			zap.Int("page", page),
			zap.Int("total", len(summaries)))
		c.pause(ctx)
	}

	return summaries, nil
}

// GetOrderDetails fetches the full document for one order and returns the
// raw response envelope, suitable for snapshotting to disk as-is.
func (c *Client) GetOrderDetails(ctx context.Context, orderID string) (json.RawMessage, error) {
	body, err := c.execute(ctx, orderDetailsQuery, map[string]any{"id": orderID})
	if err != nil {
		return nil, err
	}
	if !gjson.GetBytes(body, "data.order").IsObject() {
		return nil, fmt.Errorf("%w: order %s not found", ErrRequestFailed, orderID)
	}
	return body, nil
}

// Pause sleeps for the configured request delay, returning early if the
// context is cancelled. Exposed so callers can apply the same throttle
// between per-order detail fetches.
func (c *Client) Pause(ctx context.Context) {
	c.pause(ctx)
}

func (c *Client) pause(ctx context.Context) {
	delay := c.config.RequestDelay
	if delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
