package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

// Ensure LibraryStore implements the interface.
var _ driven.LibraryStore = (*LibraryStore)(nil)

// LibraryStore is an in-memory implementation of driven.LibraryStore for testing.
type LibraryStore struct {
	mu        sync.RWMutex
	revisions []domain.Revision
}

// NewLibraryStore creates a new in-memory library store.
func NewLibraryStore() *LibraryStore {
	return &LibraryStore{}
}

// SaveRevision stores a new revision.
func (s *LibraryStore) SaveRevision(_ context.Context, rev *domain.Revision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.revisions {
		if r.ID == rev.ID {
			return domain.ErrAlreadyExists
		}
	}
	c := *rev
	c.Content = slices.Clone(rev.Content)
	s.revisions = append(s.revisions, c)
	return nil
}

// GetRevision retrieves a revision by ID.
func (s *LibraryStore) GetRevision(_ context.Context, id string) (*domain.Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.revisions {
		if r.ID == id {
			r.Content = slices.Clone(r.Content)
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// LatestRevision retrieves the newest revision of a drafting.
func (s *LibraryStore) LatestRevision(_ context.Context, draftingID string) (*domain.Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.revisions) - 1; i >= 0; i-- {
		if r := s.revisions[i]; r.DraftingID == draftingID {
			r.Content = slices.Clone(r.Content)
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDraftings returns every drafting with at least one revision.
func (s *LibraryStore) ListDraftings(_ context.Context) ([]domain.DraftingSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.DraftingSummary
	pos := make(map[string]int)
	for _, r := range s.revisions {
		i, ok := pos[r.DraftingID]
		if !ok {
			pos[r.DraftingID] = len(out)
			out = append(out, domain.DraftingSummary{ID: r.DraftingID})
			i = len(out) - 1
		}
		out[i].Name = r.Name
		out[i].Revisions++
		out[i].UpdatedAt = r.CreatedAt
	}
	return out, nil
}

// ListRevisions returns a drafting's revisions, newest first.
func (s *LibraryStore) ListRevisions(_ context.Context, draftingID string) ([]domain.Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Revision
	for i := len(s.revisions) - 1; i >= 0; i-- {
		if r := s.revisions[i]; r.DraftingID == draftingID {
			r.Content = nil
			out = append(out, r)
		}
	}
	return out, nil
}

// DeleteDrafting removes a drafting and all its revisions.
func (s *LibraryStore) DeleteDrafting(_ context.Context, draftingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.revisions)
	s.revisions = slices.DeleteFunc(s.revisions, func(r domain.Revision) bool {
		return r.DraftingID == draftingID
	})
	if len(s.revisions) == before {
		return domain.ErrNotFound
	}
	return nil
}
