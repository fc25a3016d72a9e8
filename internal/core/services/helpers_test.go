package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/adapters/driven/storage/memory"
	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/geometry"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

func memoryStores() (driven.EntityStore, driven.VariableStore) {
	return memory.NewEntityStore(), memory.NewVariableStore()
}

// draft builds a drafting operation by operation.
type draft struct {
	t *testing.T
	d *domain.Drafting
}

func newDraft(t *testing.T) *draft {
	t.Helper()
	return &draft{t: t, d: domain.NewDrafting("test-drafting", domain.UnitCentimeter)}
}

// add appends an operation and returns it.
func (b *draft) add(p domain.Params) domain.Operation {
	b.t.Helper()
	op := b.d.NewOperation("", p)
	b.d.Operations = append(b.d.Operations, op)
	return op
}

// point appends a base point and returns its entity id.
func (b *draft) point(name, x, y string) domain.ID {
	b.t.Helper()
	return b.add(domain.BasePoint{Name: name, X: x, Y: y}).Outputs[0]
}

// engine creates an engine over the drafting without recomputing.
func (b *draft) engine() *Engine {
	return NewEngine(b.d, nil, memoryStores)
}

// recompute creates an engine and requires a clean recomputation.
func (b *draft) recompute() *Engine {
	b.t.Helper()
	e := b.engine()
	_, err := e.Recompute(0)
	require.NoError(b.t, err)
	return e
}

func pointAt(t *testing.T, e *Engine, label string) geometry.Point {
	t.Helper()
	ent, err := e.Entities().ByLabel(label)
	require.NoError(t, err)
	p, ok := ent.Point()
	require.True(t, ok, "%s is a %s", label, ent.Type)
	return p
}

func variable(t *testing.T, e *Engine, name string) float64 {
	t.Helper()
	v, ok := e.Variables().Resolve(name)
	require.True(t, ok, "variable %s", name)
	return v
}

// fixture is a workspace with every service wired to memory stores.
type fixture struct {
	ws       *Workspace
	drafting *DraftingService
	history  *HistoryService
	query    *QueryService
}

func newFixture(t *testing.T, d *domain.Drafting, maxDepth int) *fixture {
	t.Helper()
	ws := NewWorkspace(nil, memoryStores)
	f := &fixture{
		ws:       ws,
		drafting: NewDraftingService(ws, nil, nil),
		history:  NewHistoryService(ws, maxDepth),
		query:    NewQueryService(ws),
	}
	if d != nil {
		_, err := f.drafting.Open(t.Context(), d, "")
		require.NoError(t, err)
	}
	return f
}
