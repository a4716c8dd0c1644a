package testsupport

import (
	"context"
	"testing"

	"tidyfin/internal/catalog"
	"tidyfin/internal/classify"
	"tidyfin/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem creates a pending media item for tests using the provided store.
func NewItem(t testing.TB, store *catalog.Store, filename, path string) *catalog.MediaItem {
	t.Helper()

	item := &catalog.MediaItem{
		OriginalFilename: filename,
		DetectedType:     classify.MediaTypeUnknown,
		OriginalPath:     path,
		Status:           catalog.ItemPending,
	}
	if err := store.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("store.CreateItem: %v", err)
	}
	return item
}
