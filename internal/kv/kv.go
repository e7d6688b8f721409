// Package kv provides access to the hosted edgekv store: a namespaced,
// eventually-consistent key-value service with plain get/put/delete
// semantics. The store offers no transactions and no compare-and-swap;
// any read-modify-write done on top of it is last-writer-wins.
package kv

import "context"

// Store is the narrow surface the rest of the server programs against.
// Swapping the backing store (or adding an in-process mutex when
// co-located) should stay contained behind this interface.
type Store interface {
	// Get returns the value for key, or ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
