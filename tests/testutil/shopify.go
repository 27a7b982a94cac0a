// Package testutil provides shared helpers for the order feed tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeOrder is one order served by the fake Admin API.
type FakeOrder struct {
	NumericID         string
	Name              string
	FulfillmentStatus string
	Envelope          string
}

// FakeShopify is an httptest-backed stand-in for the GraphQL Admin API.
// It serves a single listing page plus per-order detail envelopes and
// records the search filters it received.
type FakeShopify struct {
	Server *httptest.Server

	mu      sync.Mutex
	orders  []FakeOrder
	filters []string
}

// NewFakeShopify starts the fake API. The server is closed with the
// test.
func NewFakeShopify(t *testing.T, orders ...FakeOrder) *FakeShopify {
	t.Helper()
	f := &FakeShopify{orders: orders}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// Filters returns every search filter received by the listing query, in
// order.
func (f *FakeShopify) Filters() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.filters...)
}

// SetOrders replaces the served order set.
func (f *FakeShopify) SetOrders(orders ...FakeOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = orders
}

func (f *FakeShopify) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.Contains(req.Query, "orders("):
		filter, _ := req.Variables["query"].(string)
		f.filters = append(f.filters, filter)
		f.writeListing(w)
	case strings.Contains(req.Query, "order("):
		id, _ := req.Variables["id"].(string)
		f.writeDetail(w, id)
	default:
		http.Error(w, "unknown query", http.StatusBadRequest)
	}
}

func (f *FakeShopify) writeListing(w http.ResponseWriter) {
	nodes := make([]map[string]any, 0, len(f.orders))
	for _, order := range f.orders {
		nodes = append(nodes, map[string]any{
			"id":                       "gid://shopify/Order/" + order.NumericID,
			"name":                     order.Name,
			"displayFulfillmentStatus": order.FulfillmentStatus,
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{
			"orders": map[string]any{
				"nodes": nodes,
				"pageInfo": map[string]any{
					"hasNextPage": false,
					"endCursor":   "",
				},
			},
		},
	})
}

func (f *FakeShopify) writeDetail(w http.ResponseWriter, id string) {
	for _, order := range f.orders {
		if "gid://shopify/Order/"+order.NumericID == id {
			_, _ = w.Write([]byte(order.Envelope))
			return
		}
	}
	_, _ = w.Write([]byte(`{"data": {"order": null}}`))
}

// OrderEnvelope builds a detail-query response for one order with a
// single fulfillment line at the given location.
func OrderEnvelope(numericID, name, location, sku, amount string) string {
	return fmt.Sprintf(`{
		"data": {"order": {
			"id": "gid://shopify/Order/%[1]s",
			"name": "%[2]s",
			"createdAt": "2025-03-01T10:00:00Z",
			"updatedAt": "2025-03-01T10:00:00Z",
			"shippingAddress": {"country": "Singapore", "countryCodeV2": "SG"},
			"fulfillmentOrders": {"nodes": [{
				"assignedLocation": {"name": "%[3]s Warehouse"},
				"lineItems": {"nodes": [{
					"totalQuantity": 1,
					"lineItem": {
						"sku": "%[4]s",
						"name": "Item %[4]s",
						"quantity": 1,
						"vendor": "Club21",
						"requiresShipping": true,
						"originalTotalSet": {"shopMoney": {"amount": "%[5]s", "currencyCode": "SGD"}},
						"discountedTotalSet": {"shopMoney": {"amount": "%[5]s", "currencyCode": "SGD"}},
						"variant": {"sku": "%[4]s", "product": {"vendor": "Club21", "tags": ["Men"]}}
					}
				}]}
			}]},
			"lineItems": {"nodes": [{
				"sku": "%[4]s",
				"quantity": 1,
				"fulfillableQuantity": 1,
				"vendor": "Club21",
				"requiresShipping": true,
				"originalUnitPriceSet": {"shopMoney": {"amount": "%[5]s", "currencyCode": "SGD"}},
				"variant": {"sku": "%[4]s", "product": {"vendor": "Club21", "tags": ["Men"]}}
			}]}
		}}
	}`, numericID, name, location, sku, amount)
}
