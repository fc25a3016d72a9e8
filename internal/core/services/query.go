package services

import (
	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driving"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers read-only questions about the workspace.
type QueryService struct {
	ws *Workspace
}

// NewQueryService creates a query service over ws.
func NewQueryService(ws *Workspace) *QueryService {
	return &QueryService{ws: ws}
}

// Entities returns every entity in construction order.
func (s *QueryService) Entities() ([]domain.Entity, error) {
	var out []domain.Entity
	err := s.ws.read(func(e *Engine) error {
		out = e.Entities().List()
		return nil
	})
	return out, err
}

// EntityByID returns an entity by id.
func (s *QueryService) EntityByID(id domain.ID) (domain.Entity, error) {
	var out domain.Entity
	err := s.ws.read(func(e *Engine) error {
		var err error
		out, err = e.Entities().Lookup(id)
		return err
	})
	return out, err
}

// EntityByLabel returns an entity by label.
func (s *QueryService) EntityByLabel(label string) (domain.Entity, error) {
	var out domain.Entity
	err := s.ws.read(func(e *Engine) error {
		var err error
		out, err = e.Entities().ByLabel(label)
		return err
	})
	return out, err
}

// Operations returns copies of the drafting's operations in order.
func (s *QueryService) Operations() ([]domain.Operation, error) {
	var out []domain.Operation
	err := s.ws.read(func(e *Engine) error {
		ops := e.Drafting().Operations
		out = make([]domain.Operation, len(ops))
		for i := range ops {
			out[i] = ops[i].Clone()
		}
		return nil
	})
	return out, err
}

// FormulaOf returns the formula fields of an operation keyed by field name.
func (s *QueryService) FormulaOf(opID domain.ID) (map[string]string, error) {
	var out map[string]string
	err := s.ws.read(func(e *Engine) error {
		op, err := e.Drafting().Operation(opID)
		if err != nil {
			return err
		}
		out = make(map[string]string)
		for _, f := range op.Params.Formulas() {
			out[f.Field] = f.Expr
		}
		return nil
	})
	return out, err
}

// Variables returns the namespace in definition order.
func (s *QueryService) Variables() ([]domain.Variable, error) {
	var out []domain.Variable
	err := s.ws.read(func(e *Engine) error {
		out = e.Variables().List()
		return nil
	})
	return out, err
}

// Evaluate evaluates a formula against the current namespace.
func (s *QueryService) Evaluate(formula string) (float64, error) {
	var v float64
	err := s.ws.read(func(e *Engine) error {
		var err error
		v, err = e.Evaluator().Eval(formula, e.Variables())
		return err
	})
	return v, err
}
