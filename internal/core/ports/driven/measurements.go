package driven

import (
	"context"

	"github.com/seamwork/drafter/internal/core/domain"
)

// MeasurementSource loads body measurements.
type MeasurementSource interface {
	// Load reads the measurement file at path.
	Load(ctx context.Context, path string) (*domain.Measurements, error)
}

// MeasurementWatcher reports changes to a measurement file.
type MeasurementWatcher interface {
	// Watch blocks until ctx is cancelled, calling onChange with freshly
	// loaded measurements after each change to path.
	Watch(ctx context.Context, path string, onChange func(*domain.Measurements)) error
}
