package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
	"github.com/seamwork/drafter/internal/core/ports/driving"
	"github.com/seamwork/drafter/internal/logger"
)

// Ensure DraftingService implements the interface.
var _ driving.DraftingService = (*DraftingService)(nil)

// DraftingService opens, recomputes and saves the workspace drafting.
type DraftingService struct {
	ws           *Workspace
	codec        driven.DraftingCodec
	measurements driven.MeasurementSource
}

// NewDraftingService creates a drafting service. measurements may be nil,
// in which case measurement files referenced by documents are ignored.
func NewDraftingService(ws *Workspace, codec driven.DraftingCodec, measurements driven.MeasurementSource) *DraftingService {
	return &DraftingService{ws: ws, codec: codec, measurements: measurements}
}

// New replaces the open drafting with an empty one.
func (s *DraftingService) New(unit domain.Unit) *domain.Drafting {
	d := domain.NewDrafting(uuid.NewString(), unit)
	engine := s.ws.newEngine(d)
	// An empty drafting has nothing that can fail.
	_, _ = engine.Recompute(0)

	s.ws.mu.Lock()
	s.ws.open(engine, "")
	s.ws.mu.Unlock()
	return d.Clone()
}

// Load reads a drafting file and recomputes it. Structural problems are
// errors; a failing operation is reported in the outcome.
func (s *DraftingService) Load(ctx context.Context, path string) (domain.RecomputeOutcome, error) {
	d, err := s.decodeFile(path)
	if err != nil {
		return domain.RecomputeOutcome{}, err
	}
	return s.Open(ctx, d, path)
}

// Open validates d, loads its measurements and installs it as the
// workspace drafting. path locates the document for relative measurement
// paths and later saves; it may be empty.
func (s *DraftingService) Open(ctx context.Context, d *domain.Drafting, path string) (domain.RecomputeOutcome, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := d.Validate(); err != nil {
		return domain.RecomputeOutcome{}, fmt.Errorf("invalid drafting: %w", err)
	}
	engine := s.ws.newEngine(d)
	if err := BuildGraph(d, engine.Evaluator(), nil).Validate(); err != nil {
		return domain.RecomputeOutcome{}, fmt.Errorf("invalid drafting: %w", err)
	}
	if d.MeasurementsPath != "" && s.measurements != nil {
		m, err := s.measurements.Load(ctx, resolvePath(path, d.MeasurementsPath))
		if err != nil {
			return domain.RecomputeOutcome{}, fmt.Errorf("load measurements: %w", err)
		}
		if err := engine.SetMeasurements(m); err != nil {
			return domain.RecomputeOutcome{}, err
		}
	}

	outcome, err := engine.Recompute(0)
	var opErr *domain.OperationError
	if err != nil && !errors.As(err, &opErr) {
		return outcome, err
	}

	s.ws.mu.Lock()
	s.ws.open(engine, path)
	s.ws.mu.Unlock()

	logger.Info("opened drafting %s: %d operations, %d entities", d.ID, len(d.Operations), outcome.Entities)
	return outcome, nil
}

func (s *DraftingService) decodeFile(path string) (*domain.Drafting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open drafting: %w", err)
	}
	defer f.Close()

	d, err := s.codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return d, nil
}

// Save writes the open drafting. An empty path reuses the current one.
func (s *DraftingService) Save(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.ws.mu.Lock()
	defer s.ws.mu.Unlock()
	if s.ws.engine == nil {
		return domain.ErrNoDrafting
	}
	if path == "" {
		path = s.ws.path
	}
	if path == "" {
		return fmt.Errorf("%w: no path to save to", domain.ErrInvalidInput)
	}

	d := s.ws.engine.Drafting()
	d.Version = domain.CurrentVersion
	if err := writeFile(path, func(f *os.File) error { return s.codec.Encode(f, d) }); err != nil {
		return fmt.Errorf("save drafting: %w", err)
	}
	s.ws.path = path
	logger.Info("saved drafting to %s", path)
	return nil
}

// writeFile writes through a temporary file renamed over path.
func writeFile(path string, write func(f *os.File) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".drafter-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Path returns the file backing the open drafting.
func (s *DraftingService) Path() string {
	return s.ws.Path()
}

// Drafting returns a copy of the open drafting.
func (s *DraftingService) Drafting() (*domain.Drafting, error) {
	var d *domain.Drafting
	err := s.ws.read(func(e *Engine) error {
		d = e.Drafting().Clone()
		return nil
	})
	return d, err
}

// SetMeasurements replaces the measurements and recomputes from scratch.
func (s *DraftingService) SetMeasurements(m *domain.Measurements) (domain.RecomputeOutcome, error) {
	var outcome domain.RecomputeOutcome
	err := s.ws.write(func(e *Engine) error {
		if err := e.SetMeasurements(m); err != nil {
			return err
		}
		var err error
		outcome, err = e.Recompute(0)
		return recomputeError(err)
	})
	return outcome, err
}

// LoadMeasurements reads a measurement file, applies it and records its
// path in the drafting.
func (s *DraftingService) LoadMeasurements(ctx context.Context, path string) (domain.RecomputeOutcome, error) {
	if s.measurements == nil {
		return domain.RecomputeOutcome{}, fmt.Errorf("%w: no measurement source configured", domain.ErrInvalidInput)
	}
	m, err := s.measurements.Load(ctx, path)
	if err != nil {
		return domain.RecomputeOutcome{}, fmt.Errorf("load measurements: %w", err)
	}
	outcome, err := s.SetMeasurements(m)
	if err != nil && !errors.Is(err, domain.ErrRecomputeFailed) {
		return outcome, err
	}
	_ = s.ws.write(func(e *Engine) error {
		e.Drafting().MeasurementsPath = relativePath(s.ws.path, path)
		return nil
	})
	return outcome, err
}

// Recompute replays every operation from scratch.
func (s *DraftingService) Recompute() (domain.RecomputeOutcome, error) {
	var outcome domain.RecomputeOutcome
	err := s.ws.write(func(e *Engine) error {
		var err error
		outcome, err = e.Recompute(0)
		return recomputeError(err)
	})
	return outcome, err
}

func recomputeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrRecomputeFailed, err)
}

// resolvePath interprets target relative to the directory of doc.
func resolvePath(doc, target string) string {
	if filepath.IsAbs(target) || doc == "" {
		return target
	}
	return filepath.Join(filepath.Dir(doc), target)
}

// relativePath expresses target relative to the directory of doc when possible.
func relativePath(doc, target string) string {
	if doc == "" {
		return target
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	absDoc, err := filepath.Abs(filepath.Dir(doc))
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(absDoc, absTarget)
	if err != nil {
		return target
	}
	return rel
}
