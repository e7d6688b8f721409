package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/edgeform/edgeform/internal/kv"
)

const (
	indexMaxRetries = 3
	indexRetryStep  = 50 * time.Millisecond
)

// IndexRepo maintains the per-form ordered list of submission IDs.
// Append order is arrival order; listing reads from the tail.
type IndexRepo struct {
	store kv.Store
}

func NewIndexRepo(store kv.Store) *IndexRepo {
	return &IndexRepo{store: store}
}

// IDs returns the index for a form, oldest first. A missing index is an
// empty list, not an error.
func (r *IndexRepo) IDs(ctx context.Context, formID string) ([]string, error) {
	data, err := r.store.Get(ctx, IndexKey(formID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal index for %s: %w", formID, err)
	}
	return ids, nil
}

// Append adds id to the end of the form's index.
func (r *IndexRepo) Append(ctx context.Context, formID, id string) error {
	return r.mutate(ctx, formID, func(ids []string) []string {
		return append(ids, id)
	})
}

// Remove filters id out of the form's index.
func (r *IndexRepo) Remove(ctx context.Context, formID, id string) error {
	return r.mutate(ctx, formID, func(ids []string) []string {
		out := ids[:0]
		for _, existing := range ids {
			if existing != id {
				out = append(out, existing)
			}
		}
		return out
	})
}

// mutate runs a read-modify-write on the index with a bounded retry.
// The retry only re-executes on store errors (timeouts, throttling); the
// store offers no compare-and-swap, so it cannot detect two callers
// interleaving between read and write. Last writer wins.
func (r *IndexRepo) mutate(ctx context.Context, formID string, fn func([]string) []string) error {
	key := IndexKey(formID)
	var lastErr error
	for attempt := 1; attempt <= indexMaxRetries; attempt++ {
		if attempt > 1 {
			time.Sleep(indexRetryStep * time.Duration(attempt-1))
		}
		ids, err := r.IDs(ctx, formID)
		if err != nil {
			lastErr = err
			continue
		}
		ids = fn(ids)
		if ids == nil {
			ids = []string{}
		}
		data, err := json.Marshal(ids)
		if err != nil {
			return fmt.Errorf("marshal index for %s: %w", formID, err)
		}
		if err := r.store.Put(ctx, key, data); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("index update for %s failed after %d attempts: %w", formID, indexMaxRetries, lastErr)
}
