package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/formula"
)

// chain builds A, B = end line from A, C = point whose x names Line_A_B,
// and an unrelated point D.
func chain(t *testing.T) (*draft, []domain.Operation) {
	t.Helper()
	b := newDraft(t)
	opA := b.add(domain.BasePoint{Name: "A", X: "0", Y: "0"})
	opB := b.add(domain.EndLine{Name: "B", Base: opA.Outputs[0], Length: "10", Angle: "0"})
	opC := b.add(domain.BasePoint{Name: "C", X: "Line_A_B", Y: "5"})
	opD := b.add(domain.BasePoint{Name: "D", X: "1", Y: "1"})
	return b, []domain.Operation{opA, opB, opC, opD}
}

func evaluator() *formula.Evaluator {
	return formula.NewEvaluator(nil, domain.UnitCentimeter)
}

func TestBuildGraph_Dependencies(t *testing.T) {
	b, ops := chain(t)

	g := BuildGraph(b.d, evaluator(), nil)

	assert.Empty(t, g.Dependencies(ops[0].ID))
	assert.Equal(t, []domain.ID{ops[0].ID}, g.Dependencies(ops[1].ID))
	// C names Line_A_B, derived from labels A and B.
	assert.ElementsMatch(t, []domain.ID{ops[0].ID, ops[1].ID}, g.Dependencies(ops[2].ID))
	assert.Empty(t, g.Dependencies(ops[3].ID))

	assert.Equal(t, []domain.ID{ops[1].ID, ops[2].ID}, g.Dependents(ops[0].ID))
	assert.Equal(t, []domain.ID{ops[1].ID, ops[2].ID}, g.Downstream(ops[0].ID))
	assert.NoError(t, g.Validate())
}

func TestBuildGraph_UsesVariableSources(t *testing.T) {
	b, ops := chain(t)
	e := b.recompute()

	g := BuildGraph(b.d, e.Evaluator(), e.Variables())

	// With the store, Line_A_B resolves to the line entity of B alone.
	assert.Equal(t, []domain.ID{ops[1].ID}, g.Dependencies(ops[2].ID))
}

func TestGraph_Validate_OutOfOrder(t *testing.T) {
	b, _ := chain(t)
	b.d.Operations[1], b.d.Operations[2] = b.d.Operations[2], b.d.Operations[1]

	err := BuildGraph(b.d, evaluator(), nil).Validate()
	assert.ErrorIs(t, err, domain.ErrDependencyViolation)
}

func TestGraph_Validate_MissingReference(t *testing.T) {
	b := newDraft(t)
	a := b.point("A", "0", "0")
	b.add(domain.Line{First: a, Second: 42})

	err := BuildGraph(b.d, evaluator(), nil).Validate()
	assert.ErrorIs(t, err, domain.ErrDependencyViolation)
}

func TestGraph_Validate_LostVariableSource(t *testing.T) {
	b, ops := chain(t)
	e := b.recompute()

	// Removing B leaves C naming a variable whose line no longer exists.
	trial := b.d.Clone()
	trial.Operations = append(trial.Operations[:1], trial.Operations[2:]...)

	err := BuildGraph(trial, e.Evaluator(), e.Variables()).Validate()
	assert.ErrorIs(t, err, domain.ErrDependencyViolation)
	assert.Error(t, BuildGraph(b.d, e.Evaluator(), e.Variables()).CheckRemove(ops[1].ID))
}

func TestGraph_TopologicalOrder(t *testing.T) {
	b, ops := chain(t)

	order, err := BuildGraph(b.d, evaluator(), nil).TopologicalOrder()

	require.NoError(t, err)
	assert.Equal(t, []domain.ID{ops[0].ID, ops[3].ID, ops[1].ID, ops[2].ID}, order)
}

func TestGraph_CheckRemove(t *testing.T) {
	b, ops := chain(t)
	g := BuildGraph(b.d, evaluator(), nil)

	assert.ErrorIs(t, g.CheckRemove(ops[0].ID), domain.ErrDependencyViolation)
	assert.ErrorIs(t, g.CheckRemove(ops[1].ID), domain.ErrDependencyViolation)
	assert.NoError(t, g.CheckRemove(ops[2].ID))
	assert.NoError(t, g.CheckRemove(ops[3].ID))
	assert.ErrorIs(t, g.CheckRemove(999), domain.ErrNotFound)
}

func TestGraph_CheckRemoveName(t *testing.T) {
	b, ops := chain(t)
	b.d.Increments = []domain.Increment{
		{Name: "#a", Formula: "1"},
		{Name: "#b", Formula: "#a * 2"},
	}
	b.d.Operations[3].Params = domain.BasePoint{Name: "D", X: "#b", Y: "1"}
	g := BuildGraph(b.d, evaluator(), nil)

	err := g.CheckRemoveName("#b")
	assert.ErrorIs(t, err, domain.ErrDependencyViolation)
	assert.Contains(t, err.Error(), fmt.Sprintf("operation %d", ops[3].ID))

	err = g.CheckRemoveName("#a")
	assert.ErrorIs(t, err, domain.ErrDependencyViolation)
	assert.Contains(t, err.Error(), "#b")

	assert.ErrorIs(t, g.CheckRemoveName("Line_A_B"), domain.ErrDependencyViolation)
	assert.NoError(t, g.CheckRemoveName("#unused"))
}

func TestGraph_CheckMove(t *testing.T) {
	b, ops := chain(t)
	g := BuildGraph(b.d, evaluator(), nil)

	tests := []struct {
		name string
		op   domain.ID
		to   int
		want error
	}{
		{"independent point to front", ops[3].ID, 0, nil},
		{"dependent before its base", ops[1].ID, 0, domain.ErrDependencyViolation},
		{"base after its dependent", ops[0].ID, 2, domain.ErrDependencyViolation},
		{"formula user before its source", ops[2].ID, 1, domain.ErrDependencyViolation},
		{"formula user to the end", ops[2].ID, 3, nil},
		{"same position", ops[1].ID, 1, nil},
		{"out of range", ops[1].ID, 4, domain.ErrInvalidInput},
		{"unknown operation", 999, 0, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.CheckMove(tt.op, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
