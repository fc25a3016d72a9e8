package services

import (
	"errors"
	"fmt"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/formula"
	"github.com/seamwork/drafter/internal/core/ports/driven"
	"github.com/seamwork/drafter/internal/logger"
)

// StoreFactory creates an empty entity store and variable store.
type StoreFactory func() (driven.EntityStore, driven.VariableStore)

// checkpoint records the store sizes before an operation executes.
type checkpoint struct {
	entities int
	vars     int
}

// Engine owns a drafting and the stores rebuilt from it.
//
// Recomputation replays operations strictly in list order. Before each
// operation the store sizes are recorded, so a replay from operation i
// truncates the stores to that checkpoint instead of clearing them.
// Engine is not safe for concurrent use; Workspace serialises access.
type Engine struct {
	drafting     *domain.Drafting
	measurements *domain.Measurements
	entities     driven.EntityStore
	vars         driven.VariableStore
	catalog      *formula.Catalog
	eval         *formula.Evaluator
	newStores    StoreFactory

	// checkpoints[i] is the state before operation i. Only operations that
	// executed successfully have a checkpoint after them.
	checkpoints []checkpoint
	failure     *domain.OperationError
}

// NewEngine creates an engine for d. Call Recompute to populate the stores.
func NewEngine(d *domain.Drafting, catalog *formula.Catalog, newStores StoreFactory) *Engine {
	if catalog == nil {
		catalog = formula.DefaultCatalog()
	}
	entities, vars := newStores()
	return &Engine{
		drafting:  d,
		entities:  entities,
		vars:      vars,
		catalog:   catalog,
		eval:      formula.NewEvaluator(catalog, d.Unit),
		newStores: newStores,
	}
}

// Drafting returns the drafting owned by the engine.
func (e *Engine) Drafting() *domain.Drafting {
	return e.drafting
}

// Entities returns the entity store.
func (e *Engine) Entities() driven.EntityStore {
	return e.entities
}

// Variables returns the variable store.
func (e *Engine) Variables() driven.VariableStore {
	return e.vars
}

// Evaluator returns the formula evaluator bound to the drafting unit.
func (e *Engine) Evaluator() *formula.Evaluator {
	return e.eval
}

// Measurements returns the current measurements, if any.
func (e *Engine) Measurements() *domain.Measurements {
	return e.measurements
}

// Failure returns the failure of the last recomputation, if any.
func (e *Engine) Failure() *domain.OperationError {
	return e.failure
}

// SetMeasurements replaces the measurements. The caller recomputes.
func (e *Engine) SetMeasurements(m *domain.Measurements) error {
	if m != nil {
		if m.Unit != e.drafting.Unit {
			return fmt.Errorf("%w: measurements in %s, drafting in %s", domain.ErrUnitMismatch, m.Unit, e.drafting.Unit)
		}
		if err := ValidateMeasurements(m, e.catalog); err != nil {
			return err
		}
	}
	e.measurements = m
	e.checkpoints = nil
	return nil
}

// Recompute replays operations from index from to the end. Index 0 also
// re-evaluates measurements and increments. On failure the stores hold
// every entity produced before the failing operation and the returned
// error is the *domain.OperationError also recorded in the outcome.
func (e *Engine) Recompute(from int) (domain.RecomputeOutcome, error) {
	ops := e.drafting.Operations
	// Operations past the last checkpoint never executed.
	if from > len(e.checkpoints)-1 {
		from = len(e.checkpoints) - 1
	}
	if from <= 0 {
		from = 0
		e.checkpoints = nil
		e.entities.Clear()
		e.vars.Clear()
		if failure := e.defineBase(); failure != nil {
			return e.finish(domain.RecomputeOutcome{From: 0}, failure)
		}
	} else {
		cp := e.checkpoints[from]
		e.entities.Truncate(cp.entities)
		e.vars.Truncate(cp.vars)
		e.checkpoints = e.checkpoints[:from]
	}

	done := logger.Timed(fmt.Sprintf("Recompute from %d", from))
	defer done()

	outcome := domain.RecomputeOutcome{From: from}
	for i := from; i < len(ops); i++ {
		e.checkpoints = append(e.checkpoints, checkpoint{entities: e.entities.Len(), vars: e.vars.Len()})
		if err := e.execute(&ops[i]); err != nil {
			failure := operationError(&ops[i], i, err)
			cp := e.checkpoints[i]
			e.entities.Truncate(cp.entities)
			e.vars.Truncate(cp.vars)
			return e.finish(outcome, failure)
		}
		outcome.Executed++
		logger.Debug("op %d (%s) %s", ops[i].ID, ops[i].Kind(), describeOutputs(ops[i].Outputs))
	}
	e.checkpoints = append(e.checkpoints, checkpoint{entities: e.entities.Len(), vars: e.vars.Len()})
	return e.finish(outcome, nil)
}

func (e *Engine) finish(outcome domain.RecomputeOutcome, failure *domain.OperationError) (domain.RecomputeOutcome, error) {
	e.failure = failure
	outcome.Entities = e.entities.Len()
	outcome.Failure = failure
	if failure != nil {
		logger.Warn("recompute stopped: %v", failure)
		return outcome, failure
	}
	return outcome, nil
}

// defineBase defines measurements then increments in document order.
func (e *Engine) defineBase() *domain.OperationError {
	for _, name := range e.measurements.Names() {
		v, _ := e.measurements.Lookup(name)
		if err := e.vars.Define(domain.Variable{Name: name, Kind: domain.VarMeasurement, Value: v}); err != nil {
			return &domain.OperationError{Index: -1, Field: name, Cause: err}
		}
	}
	for _, inc := range e.drafting.Increments {
		v, err := e.eval.Eval(inc.Formula, e.vars)
		if err == nil {
			err = e.vars.Define(domain.Variable{Name: inc.Name, Kind: domain.VarIncrement, Value: v})
		}
		if err != nil {
			return &domain.OperationError{Index: -1, Field: inc.Name, Formula: inc.Formula, Cause: err}
		}
	}
	e.checkpoints = nil
	return nil
}

// execute runs one operation and commits its outputs. On error the caller
// truncates whatever was partially committed.
func (e *Engine) execute(op *domain.Operation) error {
	if err := op.Validate(); err != nil {
		return err
	}
	b := &builder{entities: e.entities, vars: e.vars, eval: e.eval, op: op}
	if err := b.construct(); err != nil {
		return err
	}
	for _, ent := range b.out {
		if err := e.entities.Insert(ent); err != nil {
			return err
		}
	}
	for _, v := range b.defs {
		if err := e.vars.Define(v); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an engine over a deep copy of the drafting with copied
// stores, for previews that must not touch the original.
func (e *Engine) Clone() (*Engine, error) {
	c := NewEngine(e.drafting.Clone(), e.catalog, e.newStores)
	c.measurements = e.measurements
	for _, ent := range e.entities.List() {
		if err := c.entities.Insert(ent); err != nil {
			return nil, fmt.Errorf("clone entities: %w", err)
		}
	}
	for _, v := range e.vars.List() {
		if err := c.vars.Define(v); err != nil {
			return nil, fmt.Errorf("clone variables: %w", err)
		}
	}
	c.checkpoints = append([]checkpoint(nil), e.checkpoints...)
	c.failure = e.failure
	return c, nil
}

func operationError(op *domain.Operation, index int, err error) *domain.OperationError {
	oe := &domain.OperationError{OpID: op.ID, Index: index, Kind: op.Kind(), Cause: err}
	var fe *formulaError
	if errors.As(err, &fe) {
		oe.Field = fe.field
		oe.Formula = fe.expr
		oe.Cause = fe.err
	}
	return oe
}

func describeOutputs(ids []domain.ID) string {
	if len(ids) == 1 {
		return "-> " + ids[0].String()
	}
	return fmt.Sprintf("-> %v", ids)
}
