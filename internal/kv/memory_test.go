package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/edgeform/edgeform/internal/kv"
)

func TestMemoryPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v1" {
		t.Fatalf("expected v1, got %q", got)
	}

	// Overwrite is last-writer-wins.
	if err := store.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, _ = store.Get(ctx, "k")
	if string(got) != "v2" {
		t.Fatalf("expected v2, got %q", got)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestMemoryFaultInjection(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	store.FailNext(2)

	var kvErr *kv.Error
	if err := store.Put(ctx, "k", []byte("v")); !errors.As(err, &kvErr) {
		t.Fatalf("expected injected kv.Error, got %v", err)
	}
	if _, err := store.Get(ctx, "k"); err == nil {
		t.Fatal("expected second injected failure")
	}

	// Fault budget spent; operations succeed again.
	if err := store.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("put after faults: %v", err)
	}
}
