// Package checkpoint tracks the last exported order so successive feed
// runs only pull orders created after the previous run.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	feedapp "github.com/club21/orderfeed/internal/application/feed"
	"github.com/club21/orderfeed/internal/domain/orders"
)

// StorageKey returns where the named feed's checkpoint lives in the
// bucket. Each feed has its own checkpoint so one feed's run never
// advances the cursor past orders another feed has not exported.
func StorageKey(feed string) string {
	return "LatestOrder/last_order_" + feed + ".json"
}

// FileName returns the local staging name for the named feed's
// checkpoint inside the working directory.
func FileName(feed string) string {
	return "last_order_" + feed + ".json"
}

// record is the persisted checkpoint payload.
type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Manager loads and saves the order checkpoint. The checkpoint is
// written to the working directory first and only then uploaded, so a
// failed upload leaves a local copy to inspect.
type Manager struct {
	storage  feedapp.ObjectStorage
	workDir  string
	lookback time.Duration
	logger   *zap.Logger

	now func() time.Time
}

// NewManager creates a checkpoint manager. lookback is the window used
// to build a created_at filter when no checkpoint exists yet.
func NewManager(storage feedapp.ObjectStorage, workDir string, lookback time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lookback <= 0 {
		lookback = 48 * time.Hour
	}
	return &Manager{
		storage:  storage,
		workDir:  workDir,
		lookback: lookback,
		logger:   logger,
		now:      time.Now,
	}
}

// Filter returns the order search filter for the named feed's next
// run. With a usable checkpoint it is "id:>N"; otherwise it falls back
// to a created_at window ending now.
func (m *Manager) Filter(ctx context.Context, feed string) (string, error) {
	data, err := m.storage.Download(ctx, StorageKey(feed))
	if err != nil {
		if errors.Is(err, feedapp.ErrObjectNotFound) {
			m.logger.Info("no checkpoint found, using lookback window",
				zap.Duration("lookback", m.lookback))
			return m.lookbackFilter(), nil
		}
		return "", fmt.Errorf("checkpoint: download: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		m.logger.Warn("malformed checkpoint, using lookback window", zap.Error(err))
		return m.lookbackFilter(), nil
	}

	numeric := orders.NumericID(rec.ID)
	if numeric == "" {
		m.logger.Warn("checkpoint has no usable order id, using lookback window",
			zap.String("id", rec.ID))
		return m.lookbackFilter(), nil
	}

	return "id:>" + numeric, nil
}

func (m *Manager) lookbackFilter() string {
	since := m.now().UTC().Add(-m.lookback)
	return fmt.Sprintf("created_at:>'%s'", since.Format(time.RFC3339))
}

// Save persists the given order as the named feed's new checkpoint.
// The local file is written before the upload is attempted.
func (m *Manager) Save(ctx context.Context, feed, orderID, orderName string) error {
	data, err := json.Marshal(record{ID: orderID, Name: orderName})
	if err != nil {
		return fmt.Errorf("checkpoint: encode: %w", err)
	}

	if err := os.MkdirAll(m.workDir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: create work dir: %w", err)
	}
	localPath := filepath.Join(m.workDir, FileName(feed))
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write local file: %w", err)
	}

	if err := m.storage.Upload(ctx, StorageKey(feed), data, "application/json"); err != nil {
		return fmt.Errorf("checkpoint: upload: %w", err)
	}

	m.logger.Info("checkpoint saved",
		zap.String("feed", feed),
		zap.String("order_id", orderID),
		zap.String("order_name", orderName))
	return nil
}

