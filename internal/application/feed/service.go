// Package feed orchestrates a feed run: pull new orders from the store,
// stage them as snapshots, transform them into the import schema and
// upload the resulting CSV.
package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/club21/orderfeed/internal/domain/feed"
	"github.com/club21/orderfeed/internal/domain/orders"
	"github.com/club21/orderfeed/internal/infrastructure/csvutil"
	"github.com/club21/orderfeed/internal/infrastructure/shopify"
)

// File name timestamps use store time, which is UTC+8.
const fileTimeOffset = 8 * time.Hour

// RunResult summarizes one feed run.
type RunResult struct {
	RunID          string `json:"run_id"`
	Feed           string `json:"feed"`
	Filter         string `json:"filter"`
	OrdersListed   int    `json:"orders_listed"`
	OrdersExported int    `json:"orders_exported"`
	Rows           int    `json:"rows"`
	FileName       string `json:"file_name,omitempty"`
	StorageKey     string `json:"storage_key,omitempty"`
}

// variant describes one of the two feed flavors the service produces.
type variant struct {
	name            string
	filePrefix      string
	uploadPrefix    string
	unfulfilledOnly bool
	build           func(docs []*orders.Order, logger *zap.Logger) (*feed.Table, error)
}

var salesVariant = variant{
	name:         "sales",
	filePrefix:   "S21_SH_SALES_",
	uploadPrefix: "SalesFeed/",
	build: func(docs []*orders.Order, logger *zap.Logger) (*feed.Table, error) {
		rows := feed.RewriteGiftWrap(feed.Aggregate(feed.Enrich(feed.Flatten(docs)), logger))
		return feed.BuildTable(rows)
	},
}

var ordersVariant = variant{
	name:            "orders",
	filePrefix:      "S21_SH_ORDERS_",
	uploadPrefix:    "OrderFeed/",
	unfulfilledOnly: true,
	build: func(docs []*orders.Order, logger *zap.Logger) (*feed.Table, error) {
		return feed.BuildItemTable(feed.FlattenItems(docs))
	},
}

// Service runs the order feed pipeline end to end.
type Service struct {
	fetcher     OrderFetcher
	storage     ObjectStorage
	checkpoints Checkpointer
	snapshots   SnapshotStore
	workDir     string
	logger      *zap.Logger

	now func() time.Time
}

// NewService creates a feed service. workDir is where CSV files are
// staged before upload.
func NewService(
	fetcher OrderFetcher,
	storage ObjectStorage,
	checkpoints Checkpointer,
	snapshots SnapshotStore,
	workDir string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:     fetcher,
		storage:     storage,
		checkpoints: checkpoints,
		snapshots:   snapshots,
		workDir:     workDir,
		logger:      logger,
		now:         time.Now,
	}
}

// RunSalesFeed produces the consolidated sales CSV and uploads it under
// the SalesFeed/ prefix.
func (s *Service) RunSalesFeed(ctx context.Context) (*RunResult, error) {
	return s.run(ctx, salesVariant)
}

// RunOrderFeed produces the per-item order CSV for unfulfilled orders
// and uploads it under the OrderFeed/ prefix.
func (s *Service) RunOrderFeed(ctx context.Context) (*RunResult, error) {
	return s.run(ctx, ordersVariant)
}

func (s *Service) run(ctx context.Context, v variant) (result *RunResult, err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		runsTotal.WithLabelValues(v.name, status).Inc()
	}()

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("feed", v.name))
	result = &RunResult{RunID: runID, Feed: v.name}

	filter, err := s.checkpoints.Filter(ctx, v.name)
	if err != nil {
		return result, err
	}
	result.Filter = filter
	logger.Info("feed run started", zap.String("filter", filter))

	summaries, err := s.fetcher.ListOrders(ctx, filter)
	if err != nil {
		return result, err
	}
	result.OrdersListed = len(summaries)
	if len(summaries) == 0 {
		logger.Info("no new orders, nothing to export")
		return result, nil
	}

	// Advance the checkpoint before the detail fetches so a retried run
	// never re-exports orders that already made it into a file.
	if last, ok := latestOrder(summaries); ok {
		if err := s.checkpoints.Save(ctx, v.name, last.ID, last.Name); err != nil {
			return result, err
		}
	}

	exported := 0
	for _, summary := range summaries {
		if v.unfulfilledOnly && summary.FulfillmentStatus != "UNFULFILLED" {
			continue
		}

		envelope, err := s.fetcher.GetOrderDetails(ctx, summary.ID)
		if err != nil {
			logger.Warn("skipping order, detail fetch failed",
				zap.String("order_id", summary.ID),
				zap.String("order_name", summary.Name),
				zap.Error(err))
			continue
		}
		numericID := orders.NumericID(summary.ID)
		if numericID == "" {
			numericID = summary.ID
		}
		if err := s.snapshots.Save(numericID, envelope); err != nil {
			return result, err
		}
		exported++
		s.fetcher.Pause(ctx)
	}
	result.OrdersExported = exported

	docs, err := s.snapshots.LoadAll()
	if err != nil {
		return result, err
	}
	if len(docs) == 0 {
		logger.Info("no orders matched the feed filter, nothing to export")
		return result, s.snapshots.Remove()
	}

	table, err := v.build(docs, logger)
	if err != nil {
		return result, err
	}
	result.Rows = len(table.Records)

	fileName := v.filePrefix + s.now().UTC().Add(fileTimeOffset).Format("20060102_150405") + ".csv"
	localPath := filepath.Join(s.workDir, fileName)
	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return result, fmt.Errorf("create work dir: %w", err)
	}
	if err := csvutil.WriteFile(localPath, table.Header, table.Records); err != nil {
		return result, err
	}
	if err := csvutil.Normalize(localPath); err != nil {
		return result, err
	}

	if err := s.snapshots.Remove(); err != nil {
		return result, err
	}

	storageKey := v.uploadPrefix + fileName
	if err := s.storage.UploadFile(ctx, localPath, storageKey); err != nil {
		return result, err
	}
	result.FileName = fileName
	result.StorageKey = storageKey

	ordersExported.WithLabelValues(v.name).Add(float64(exported))
	rowsWritten.WithLabelValues(v.name).Add(float64(len(table.Records)))
	logger.Info("feed run finished",
		zap.Int("orders_listed", result.OrdersListed),
		zap.Int("orders_exported", exported),
		zap.Int("rows", result.Rows),
		zap.String("storage_key", storageKey))
	return result, nil
}

// latestOrder picks the summary with the highest numeric ID, which
// becomes the checkpoint for the next run. Summaries without a numeric
// ID are ignored.
func latestOrder(summaries []shopify.OrderSummary) (shopify.OrderSummary, bool) {
	var (
		best      shopify.OrderSummary
		bestID    string
		found     bool
	)
	for _, summary := range summaries {
		numeric := orders.NumericID(summary.ID)
		if numeric == "" {
			continue
		}
		if !found || numericLess(bestID, numeric) {
			best, bestID, found = summary, numeric, true
		}
	}
	return best, found
}

// numericLess compares two decimal strings by magnitude.
func numericLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
