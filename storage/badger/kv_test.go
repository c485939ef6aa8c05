package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/quaero/storage"
)

func TestKVBasics(t *testing.T) {
	repo, backend, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	kv := NewKV(backend)
	ctx := context.Background()

	// Missing key
	if _, err := kv.Get(ctx, "absent"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	// Set and get
	if err := kv.Set(ctx, "greeting", []byte("hello")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := kv.Get(ctx, "greeting")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "hello" {
		t.Fatalf("Expected 'hello', got '%s'", val)
	}

	// Overwrite
	if err := kv.Set(ctx, "greeting", []byte("goodbye")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err = kv.Get(ctx, "greeting")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "goodbye" {
		t.Fatalf("Expected 'goodbye', got '%s'", val)
	}

	// Delete
	if err := kv.Delete(ctx, "greeting"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, "greeting"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error
	if err := kv.Delete(ctx, "absent"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}
}
