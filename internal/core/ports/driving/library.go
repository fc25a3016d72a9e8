package driving

import (
	"context"

	"github.com/seamwork/drafter/internal/core/domain"
)

// LibraryService keeps saved revisions of draftings.
type LibraryService interface {
	// Save stores the current drafting as a new revision.
	Save(ctx context.Context, message string) (*domain.Revision, error)

	// List returns the draftings kept in the library.
	List(ctx context.Context) ([]domain.DraftingSummary, error)

	// Revisions returns a drafting's revisions, newest first.
	Revisions(ctx context.Context, draftingID string) ([]domain.Revision, error)

	// Restore opens a revision as the current drafting and recomputes it.
	// The id may name a revision or a drafting, whose latest revision is used.
	// A non-empty path becomes the drafting's file; relative measurement
	// paths resolve against it.
	Restore(ctx context.Context, id, path string) (domain.RecomputeOutcome, error)

	// Delete removes a drafting and its revisions.
	Delete(ctx context.Context, draftingID string) error
}
