// Package repository persists submission records and the per-form
// submission index in the edgekv store.
//
// The store has no transactions and no compare-and-swap, so the index
// (a JSON array of submission IDs under one key) is maintained with a
// best-effort read-modify-write: concurrent writers racing past the
// store's consistency window can clobber each other's update. The record
// itself is written under its own key first and is never lost; only its
// discoverability through the index can be impaired.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgeform/edgeform/internal/kv"
	"github.com/edgeform/edgeform/internal/models"
)

// Secrets provisioned out-of-band into the store. Their absence is a
// server misconfiguration, not a client error.
const (
	KeyAdminPasswordHash = "admin_password_hash"
	KeyJWTSecret         = "jwt_secret"
)

// IndexKey returns the store key holding a form's submission ID list.
func IndexKey(formID string) string {
	return fmt.Sprintf("form_%s_submissions", formID)
}

// NewSubmissionID generates a record key: <formID>_<unix millis>_<suffix>.
// The suffix comes from a UUID so concurrent submits in the same
// millisecond still get distinct keys.
func NewSubmissionID(formID string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", formID, time.Now().UnixMilli(), suffix)
}

type SubmissionRepo struct {
	store kv.Store
}

func NewSubmissionRepo(store kv.Store) *SubmissionRepo {
	return &SubmissionRepo{store: store}
}

// Put writes the record under its ID.
func (r *SubmissionRepo) Put(ctx context.Context, sub *models.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	return r.store.Put(ctx, sub.ID, data)
}

// Get loads a record by ID. Returns kv.ErrNotFound if absent.
func (r *SubmissionRepo) Get(ctx context.Context, id string) (*models.Submission, error) {
	data, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var sub models.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("unmarshal submission %s: %w", id, err)
	}
	return &sub, nil
}

// Delete removes a record by ID.
func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}
