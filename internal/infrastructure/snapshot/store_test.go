package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoadAll(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "run"), nil)

	require.NoError(t, store.Save("200", []byte(`{"data": {"order": {"id": "gid://shopify/Order/200", "name": "#2"}}}`)))
	require.NoError(t, store.Save("100", []byte(`{"data": {"order": {"id": "gid://shopify/Order/100", "name": "#1"}}}`)))

	docs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	// File-name order is deterministic regardless of save order.
	assert.Equal(t, "#1", docs[0].Name)
	assert.Equal(t, "#2", docs[1].Name)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	require.NoError(t, store.Save("100", []byte(`{"data": {"order": {"id": "gid://shopify/Order/100", "name": "#old"}}}`)))
	require.NoError(t, store.Save("100", []byte(`{"data": {"order": {"id": "gid://shopify/Order/100", "name": "#new"}}}`)))

	docs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "#new", docs[0].Name)
}

func TestStore_LoadAllSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	require.NoError(t, store.Save("1", []byte(`{"data": {"order": {"id": "gid://shopify/Order/1", "name": "#1"}}}`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order_2.json"), []byte(`not json`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order_3.json"), []byte(`{"data": {}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644))

	docs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "#1", docs[0].Name)
}

func TestStore_LoadAllMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"), nil)

	docs, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_Remove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	store := NewStore(dir, nil)

	require.NoError(t, store.Save("1", []byte(`{"data": {"order": {"id": "gid://shopify/Order/1"}}}`)))
	require.NoError(t, store.Remove())

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
