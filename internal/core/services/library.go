package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
	"github.com/seamwork/drafter/internal/core/ports/driving"
	"github.com/seamwork/drafter/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService snapshots the workspace drafting into a revision store.
type LibraryService struct {
	ws       *Workspace
	store    driven.LibraryStore
	codec    driven.DraftingCodec
	drafting *DraftingService
}

// NewLibraryService creates a library service. Restored revisions are
// opened through drafting.
func NewLibraryService(ws *Workspace, store driven.LibraryStore, codec driven.DraftingCodec, drafting *DraftingService) *LibraryService {
	return &LibraryService{ws: ws, store: store, codec: codec, drafting: drafting}
}

// Save stores the open drafting as a new revision.
func (s *LibraryService) Save(ctx context.Context, message string) (*domain.Revision, error) {
	var rev *domain.Revision
	err := s.ws.read(func(e *Engine) error {
		d := e.Drafting()
		var buf bytes.Buffer
		if err := s.codec.Encode(&buf, d); err != nil {
			return fmt.Errorf("encode drafting: %w", err)
		}
		rev = &domain.Revision{
			ID:         uuid.NewString(),
			DraftingID: d.ID,
			Name:       displayName(s.ws.path, d),
			Message:    message,
			Operations: len(d.Operations),
			Entities:   e.Entities().Len(),
			Content:    buf.Bytes(),
			CreatedAt:  time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRevision(ctx, rev); err != nil {
		return nil, fmt.Errorf("save revision: %w", err)
	}
	logger.Info("saved revision %s of %s", rev.ID, rev.DraftingID)
	return rev, nil
}

func displayName(path string, d *domain.Drafting) string {
	if path != "" {
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if d.Description != "" {
		return d.Description
	}
	return d.ID
}

// List returns the draftings kept in the library.
func (s *LibraryService) List(ctx context.Context) ([]domain.DraftingSummary, error) {
	return s.store.ListDraftings(ctx)
}

// Revisions returns a drafting's revisions, newest first.
func (s *LibraryService) Revisions(ctx context.Context, draftingID string) ([]domain.Revision, error) {
	return s.store.ListRevisions(ctx, draftingID)
}

// Restore opens a revision, or the latest revision of a drafting, as the
// workspace drafting backed by path, which may be empty.
func (s *LibraryService) Restore(ctx context.Context, id, path string) (domain.RecomputeOutcome, error) {
	rev, err := s.store.GetRevision(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		rev, err = s.store.LatestRevision(ctx, id)
	}
	if err != nil {
		return domain.RecomputeOutcome{}, fmt.Errorf("restore %s: %w", id, err)
	}
	d, err := s.codec.Decode(bytes.NewReader(rev.Content))
	if err != nil {
		return domain.RecomputeOutcome{}, fmt.Errorf("decode revision %s: %w", rev.ID, err)
	}
	logger.Info("restoring revision %s (%s)", rev.ID, rev.CreatedAt.Format(time.RFC3339))
	return s.drafting.Open(ctx, d, path)
}

// Delete removes a drafting and its revisions.
func (s *LibraryService) Delete(ctx context.Context, draftingID string) error {
	return s.store.DeleteDrafting(ctx, draftingID)
}
