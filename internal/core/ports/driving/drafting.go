package driving

import (
	"context"

	"github.com/seamwork/drafter/internal/core/domain"
)

// DraftingService opens, recomputes and persists the current drafting.
type DraftingService interface {
	// New replaces the current drafting with an empty one.
	New(unit domain.Unit) *domain.Drafting

	// Load reads a drafting file, loads its measurements if any and recomputes.
	// A failed recompute is reported in the outcome, not as an error.
	Load(ctx context.Context, path string) (domain.RecomputeOutcome, error)

	// Save writes the current drafting. An empty path reuses the load path.
	Save(ctx context.Context, path string) error

	// Path returns the file the drafting was loaded from or last saved to.
	Path() string

	// Drafting returns a copy of the current drafting.
	Drafting() (*domain.Drafting, error)

	// SetMeasurements replaces the measurements and recomputes from scratch.
	// Fails with ErrUnitMismatch if the units differ.
	SetMeasurements(m *domain.Measurements) (domain.RecomputeOutcome, error)

	// LoadMeasurements reads a measurement file and applies it.
	LoadMeasurements(ctx context.Context, path string) (domain.RecomputeOutcome, error)

	// Recompute replays every operation from scratch.
	Recompute() (domain.RecomputeOutcome, error)
}
