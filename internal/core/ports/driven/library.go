package driven

import (
	"context"

	"github.com/seamwork/drafter/internal/core/domain"
)

// LibraryStore persists saved drafting revisions.
// Backed by SQLite.
type LibraryStore interface {
	// SaveRevision stores a new revision.
	SaveRevision(ctx context.Context, rev *domain.Revision) error

	// GetRevision retrieves a revision by ID, content included.
	GetRevision(ctx context.Context, id string) (*domain.Revision, error)

	// LatestRevision retrieves the newest revision of a drafting.
	LatestRevision(ctx context.Context, draftingID string) (*domain.Revision, error)

	// ListDraftings returns every drafting with at least one revision.
	ListDraftings(ctx context.Context) ([]domain.DraftingSummary, error)

	// ListRevisions returns a drafting's revisions, newest first, without content.
	ListRevisions(ctx context.Context, draftingID string) ([]domain.Revision, error)

	// DeleteDrafting removes a drafting and all its revisions.
	DeleteDrafting(ctx context.Context, draftingID string) error
}
