package snapshot

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, found, err := store.Load(ctx); err != nil || found {
		t.Fatalf("empty store: found=%v err=%v, want not found", found, err)
	}

	doc := []byte(`{"items":[]}`)
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found || !bytes.Equal(got, doc) {
		t.Errorf("load = %q (found %v), want %q", got, found, doc)
	}

	// A second save replaces the document.
	doc2 := []byte(`{"items":[{"sku":"SKU-1"}]}`)
	if err := store.Save(ctx, doc2); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, _, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !bytes.Equal(got, doc2) {
		t.Errorf("reload = %q, want %q", got, doc2)
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected an error for an empty path")
	}
}
