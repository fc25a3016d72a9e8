package mcp

import (
	"context"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/geometry"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	entities   []domain.Entity
	operations []domain.Operation
	variables  []domain.Variable
	formulas   map[string]string
	value      float64
	err        error
}

func (m *mockQueryService) Entities() ([]domain.Entity, error) {
	return m.entities, m.err
}

func (m *mockQueryService) EntityByID(id domain.ID) (domain.Entity, error) {
	if m.err != nil {
		return domain.Entity{}, m.err
	}
	for _, e := range m.entities {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.Entity{}, domain.ErrNotFound
}

func (m *mockQueryService) EntityByLabel(label string) (domain.Entity, error) {
	if m.err != nil {
		return domain.Entity{}, m.err
	}
	for _, e := range m.entities {
		if e.Label == label {
			return e, nil
		}
	}
	return domain.Entity{}, domain.ErrNotFound
}

func (m *mockQueryService) Operations() ([]domain.Operation, error) {
	return m.operations, m.err
}

func (m *mockQueryService) FormulaOf(_ domain.ID) (map[string]string, error) {
	return m.formulas, m.err
}

func (m *mockQueryService) Variables() ([]domain.Variable, error) {
	return m.variables, m.err
}

func (m *mockQueryService) Evaluate(_ string) (float64, error) {
	return m.value, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	outcome    domain.RecomputeOutcome
	preview    *domain.EditPreview
	state      domain.HistoryState
	err        error
	lastFields map[string]string
	resolution domain.Resolution
	calls      []string
}

func (m *mockHistoryService) AddOperation(_ string, _ domain.Params) (domain.Operation, domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "add")
	return domain.Operation{}, m.outcome, m.err
}

func (m *mockHistoryService) RemoveOperation(_ domain.ID) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "remove")
	return m.outcome, m.err
}

func (m *mockHistoryService) EditOperation(_ domain.ID, fields map[string]string) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "edit")
	m.lastFields = fields
	return m.outcome, m.err
}

func (m *mockHistoryService) ReplaceParams(_ domain.ID, _ domain.Params) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "replace")
	return m.outcome, m.err
}

func (m *mockHistoryService) MoveOperation(_ domain.ID, _ int) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "move")
	return m.outcome, m.err
}

func (m *mockHistoryService) RenameLabel(_, _ string) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "rename")
	return m.outcome, m.err
}

func (m *mockHistoryService) SetIncrement(_ domain.Increment) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "set_increment")
	return m.outcome, m.err
}

func (m *mockHistoryService) RemoveIncrement(_ string) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "remove_increment")
	return m.outcome, m.err
}

func (m *mockHistoryService) Undo() (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "undo")
	return m.outcome, m.err
}

func (m *mockHistoryService) Redo() (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "redo")
	return m.outcome, m.err
}

func (m *mockHistoryService) Resolve(r domain.Resolution) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "resolve")
	m.resolution = r
	return m.outcome, m.err
}

func (m *mockHistoryService) FixInPlace(_ domain.ID, _ map[string]string) (domain.RecomputeOutcome, error) {
	m.calls = append(m.calls, "fix")
	return m.outcome, m.err
}

func (m *mockHistoryService) ProposeEdit(_ domain.ID, fields map[string]string) (*domain.EditPreview, error) {
	m.calls = append(m.calls, "propose")
	m.lastFields = fields
	return m.preview, m.err
}

func (m *mockHistoryService) State() domain.HistoryState {
	return m.state
}

// sampleEntities returns two points joined by a line.
func sampleEntities() []domain.Entity {
	a, b := geometry.Pt(0, 0), geometry.Pt(3, 4)
	return []domain.Entity{
		{ID: 2, Label: "A", Type: domain.EntityPoint, Geometry: domain.PointGeom{Point: a}, Source: 1},
		{ID: 4, Label: "B", Type: domain.EntityPoint, Geometry: domain.PointGeom{Point: b}, Source: 3},
		{
			ID: 6, Label: "Line_A_B", Type: domain.EntityLine, Source: 5,
			Geometry: domain.LineGeom{First: 2, Second: 4, Segment: geometry.Seg(a, b)},
		},
	}
}

// mockDraftingService is a mock implementation of driving.DraftingService.
type mockDraftingService struct {
	path  string
	saved int
	err   error
}

func (m *mockDraftingService) New(unit domain.Unit) *domain.Drafting {
	return domain.NewDrafting("mock", unit)
}

func (m *mockDraftingService) Load(_ context.Context, path string) (domain.RecomputeOutcome, error) {
	m.path = path
	return domain.RecomputeOutcome{}, m.err
}

func (m *mockDraftingService) Save(_ context.Context, path string) error {
	if m.err != nil {
		return m.err
	}
	if path != "" {
		m.path = path
	}
	m.saved++
	return nil
}

func (m *mockDraftingService) Path() string {
	return m.path
}

func (m *mockDraftingService) Drafting() (*domain.Drafting, error) {
	return domain.NewDrafting("mock", domain.UnitCentimeter), m.err
}

func (m *mockDraftingService) SetMeasurements(_ *domain.Measurements) (domain.RecomputeOutcome, error) {
	return domain.RecomputeOutcome{}, m.err
}

func (m *mockDraftingService) LoadMeasurements(_ context.Context, _ string) (domain.RecomputeOutcome, error) {
	return domain.RecomputeOutcome{}, m.err
}

func (m *mockDraftingService) Recompute() (domain.RecomputeOutcome, error) {
	return domain.RecomputeOutcome{}, m.err
}
