// Package snapshot persists raw order documents to the local working
// directory between the fetch and transform stages of a feed run.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/club21/orderfeed/internal/domain/orders"
)

// Store writes and reads order snapshots under a working directory.
// Each order is one file named order_<numeric id>.json holding the raw
// API response envelope.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a snapshot store rooted at dir. The directory is
// created on the first Save.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the working directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the raw envelope for one order. The numeric order ID
// becomes part of the file name so reruns overwrite rather than
// duplicate.
func (s *Store) Save(numericID string, envelope []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("order_%s.json", numericID))
	if err := os.WriteFile(path, envelope, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

// LoadAll reads every snapshot in the directory in file-name order and
// decodes each into an order document. Files that fail to decode are
// logged and skipped so one bad snapshot cannot sink a whole run.
func (s *Store) LoadAll() ([]*orders.Order, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: read dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "order_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]*orders.Order, 0, len(names))
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable snapshot", zap.String("file", name), zap.Error(err))
			continue
		}
		var doc orders.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			s.logger.Warn("skipping malformed snapshot", zap.String("file", name), zap.Error(err))
			continue
		}
		if doc.Data == nil || doc.Data.Order == nil {
			s.logger.Warn("skipping snapshot without order payload", zap.String("file", name))
			continue
		}
		result = append(result, doc.Data.Order)
	}
	return result, nil
}

// Remove deletes the whole snapshot directory. Called after a run has
// produced its CSV so leftover files never leak into the next run.
func (s *Store) Remove() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("snapshot: remove dir: %w", err)
	}
	return nil
}
