package feed

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/club21/orderfeed/internal/domain/orders"
	"github.com/club21/orderfeed/internal/infrastructure/shopify"
)

// ErrObjectNotFound is returned by ObjectStorage.Download when the key
// does not exist in the bucket.
var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStorage is the object storage contract the feed service depends
// on. Implementations live in internal/infrastructure/storage.
type ObjectStorage interface {
	// Upload writes data to the given key.
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	// Download reads the object at the given key. Missing keys return
	// ErrObjectNotFound.
	Download(ctx context.Context, storageKey string) ([]byte, error)
	// UploadFile streams a local file to the given key.
	UploadFile(ctx context.Context, localPath, storageKey string) error
	// ObjectExists reports whether the key exists in the bucket.
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// OrderFetcher pulls orders from the upstream API. Implemented by the
// Shopify GraphQL client.
type OrderFetcher interface {
	ListOrders(ctx context.Context, filter string) ([]shopify.OrderSummary, error)
	GetOrderDetails(ctx context.Context, orderID string) (json.RawMessage, error)
	Pause(ctx context.Context)
}

// Checkpointer tracks the last exported order between runs. Each feed
// keeps its own checkpoint: the sales and order feeds list different
// subsets and must not advance each other's cursor.
type Checkpointer interface {
	// Filter returns the order search filter for the next run of the
	// named feed.
	Filter(ctx context.Context, feed string) (string, error)
	// Save records the given order as the named feed's new checkpoint.
	Save(ctx context.Context, feed, orderID, orderName string) error
}

// SnapshotStore stages raw order documents between fetch and transform.
type SnapshotStore interface {
	Save(numericID string, envelope []byte) error
	LoadAll() ([]*orders.Order, error)
	Remove() error
}
