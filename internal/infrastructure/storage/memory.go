package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	feedapp "github.com/club21/orderfeed/internal/application/feed"
)

// MemoryObjectStorage is an in-memory ObjectStorage implementation.
// Use it for development and tests where no real bucket is available.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryObjectStorage creates an empty in-memory storage.
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string][]byte),
	}
}

// Ensure MemoryObjectStorage implements the application contract
var _ feedapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// Upload stores data under the given key.
func (m *MemoryObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[storageKey] = buf
	return nil
}

// Download returns the stored data for the given key.
func (m *MemoryObjectStorage) Download(ctx context.Context, storageKey string) ([]byte, error) {
	if storageKey == "" {
		return nil, errors.New("storage key is required")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[storageKey]
	if !ok {
		return nil, feedapp.ErrObjectNotFound
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// UploadFile reads a local file and stores it under the given key.
func (m *MemoryObjectStorage) UploadFile(ctx context.Context, localPath, storageKey string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	return m.Upload(ctx, storageKey, data, "")
}

// DownloadFile writes the stored object to a local file.
func (m *MemoryObjectStorage) DownloadFile(ctx context.Context, storageKey, localPath string) error {
	data, err := m.Download(ctx, storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(localPath, data, 0o644)
}

// DeleteObject removes the key if present.
func (m *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, storageKey)
	return nil
}

// ObjectExists reports whether the key is present.
func (m *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[storageKey]
	return ok, nil
}

// Keys returns every stored key. Test helper.
func (m *MemoryObjectStorage) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
