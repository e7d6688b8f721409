package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/edgeform/edgeform/internal/models"
	"github.com/edgeform/edgeform/internal/repository"
)

// DefaultListLimit caps the admin listing window.
const DefaultListLimit = 50

type SubmissionService struct {
	subs  *repository.SubmissionRepo
	index *repository.IndexRepo
}

func NewSubmissionService(subs *repository.SubmissionRepo, index *repository.IndexRepo) *SubmissionService {
	return &SubmissionService{subs: subs, index: index}
}

// Create stores a new submission record and appends it to the form's
// index. The record write is fatal to the request; an index append that
// still fails after retries is logged and swallowed. The record is
// durable either way, it just may not show up in listings.
func (s *SubmissionService) Create(ctx context.Context, formID string, data map[string]string, clientAddr string) (*models.Submission, error) {
	if formID == "" || len(data) == 0 {
		return nil, fmt.Errorf("%w: formId and submission data are required", ErrValidation)
	}
	if clientAddr == "" {
		clientAddr = "unknown"
	}

	sub := &models.Submission{
		ID:        repository.NewSubmissionID(formID),
		FormID:    formID,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		IP:        clientAddr,
	}

	if err := s.subs.Put(ctx, sub); err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}

	if err := s.index.Append(ctx, formID, sub.ID); err != nil {
		log.Printf("Warning: index append for %s failed, submission %s stored but unlisted: %v", formID, sub.ID, err)
	}
	return sub, nil
}

// List is the admin listing: the most recent limit entries by index
// position, sorted by timestamp descending. Truncation happens before the
// fetch and before the sort, so the window is "most recent by index
// position, not by timestamp"; the two can disagree after a partial
// index repair. Records that fail to load are skipped and logged.
func (s *SubmissionService) List(ctx context.Context, formID string, limit int) ([]models.Submission, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: formId is required", ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	ids, err := s.index.IDs(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}

	subs := s.fetch(ctx, ids)
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].Timestamp > subs[j].Timestamp
	})
	return subs, nil
}

// ListAll is the public listing: every indexed record in insertion order,
// no limit, no sort. The two listing variants shipped with different
// behavior and both are preserved distinctly.
func (s *SubmissionService) ListAll(ctx context.Context, formID string) ([]models.Submission, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: formId is required", ErrValidation)
	}
	ids, err := s.index.IDs(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return s.fetch(ctx, ids), nil
}

// Delete removes the record and filters it out of the index. The record
// delete is fatal on store error; index maintenance is best-effort, same
// as on create.
func (s *SubmissionService) Delete(ctx context.Context, formID, id string) error {
	if formID == "" || id == "" {
		return fmt.Errorf("%w: formId and submissionId are required", ErrValidation)
	}

	if err := s.subs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}

	if err := s.index.Remove(ctx, formID, id); err != nil {
		log.Printf("Warning: index remove for %s failed, submission %s deleted but still listed: %v", formID, id, err)
	}
	return nil
}

// CountByForm reports the index length for a form.
func (s *SubmissionService) CountByForm(ctx context.Context, formID string) (int, error) {
	if formID == "" {
		return 0, fmt.Errorf("%w: formId is required", ErrValidation)
	}
	ids, err := s.index.IDs(ctx, formID)
	if err != nil {
		return 0, fmt.Errorf("read index: %w", err)
	}
	return len(ids), nil
}

func (s *SubmissionService) fetch(ctx context.Context, ids []string) []models.Submission {
	subs := make([]models.Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := s.subs.Get(ctx, id)
		if err != nil {
			log.Printf("Warning: failed to fetch submission %s: %v", id, err)
			continue
		}
		subs = append(subs, *sub)
	}
	return subs
}
