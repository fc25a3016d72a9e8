package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/core/domain"
)

func TestQueryService_NoDrafting(t *testing.T) {
	f := newFixture(t, nil, 0)

	_, err := f.query.Entities()
	assert.ErrorIs(t, err, domain.ErrNoDrafting)
	_, err = f.query.Evaluate("1")
	assert.ErrorIs(t, err, domain.ErrNoDrafting)
}

func TestQueryService_Entities(t *testing.T) {
	f, ops := openChain(t, 0)

	ents, err := f.query.Entities()

	require.NoError(t, err)
	labels := make([]string, len(ents))
	for i, e := range ents {
		labels[i] = e.Label
	}
	assert.Equal(t, []string{"A", "B", "Line_A_B", "C", "D"}, labels)
	assert.Equal(t, ops[1].ID, ents[2].Source)
}

func TestQueryService_EntityByID(t *testing.T) {
	f, ops := openChain(t, 0)

	ent, err := f.query.EntityByID(ops[1].Outputs[1])
	require.NoError(t, err)
	assert.Equal(t, domain.EntityLine, ent.Type)
	assert.Equal(t, "Line_A_B", ent.Label)

	_, err = f.query.EntityByID(999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryService_EntityByLabel(t *testing.T) {
	f, ops := openChain(t, 0)

	ent, err := f.query.EntityByLabel("C")
	require.NoError(t, err)
	assert.Equal(t, ops[2].Outputs[0], ent.ID)
	p, ok := ent.Point()
	require.True(t, ok)
	assert.InDelta(t, 10, p.X, delta)

	_, err = f.query.EntityByLabel("Z")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryService_Operations_ReturnsCopies(t *testing.T) {
	f, ops := openChain(t, 0)

	got, err := f.query.Operations()
	require.NoError(t, err)
	require.Len(t, got, len(ops))
	got[0].Params = domain.BasePoint{Name: "Q", X: "9", Y: "9"}

	again, err := f.query.Operations()
	require.NoError(t, err)
	assert.Equal(t, ops[0].Params, again[0].Params)
}

func TestQueryService_FormulaOf(t *testing.T) {
	f, ops := openChain(t, 0)

	formulas, err := f.query.FormulaOf(ops[1].ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"length": "10", "angle": "0"}, formulas)

	_, err = f.query.FormulaOf(999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryService_Variables(t *testing.T) {
	f, _ := openChain(t, 0)

	vars, err := f.query.Variables()

	require.NoError(t, err)
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"Line_A_B", "AngleLine_A_B"}, names)
}

func TestQueryService_Evaluate(t *testing.T) {
	f, _ := openChain(t, 0)

	v, err := f.query.Evaluate("Line_A_B * 2 + AngleLine_A_B")
	require.NoError(t, err)
	assert.InDelta(t, 20, v, delta)

	_, err = f.query.Evaluate("nope + 1")
	assert.ErrorIs(t, err, domain.ErrUnknownIdentifier)

	_, err = f.query.Evaluate("1/0")
	assert.ErrorIs(t, err, domain.ErrDomain)
}
