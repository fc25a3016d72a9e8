package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/adapters/driven/codec/xmlcodec"
	"github.com/seamwork/drafter/internal/adapters/driven/storage/memory"
	"github.com/seamwork/drafter/internal/core/domain"
)

func newLibrary(t *testing.T, d *domain.Drafting) (*fixture, *LibraryService) {
	t.Helper()
	f := newFixture(t, d, 0)
	f.drafting = NewDraftingService(f.ws, xmlcodec.New(), nil)
	return f, NewLibraryService(f.ws, memory.NewLibraryStore(), xmlcodec.New(), f.drafting)
}

func TestLibraryService_Save(t *testing.T) {
	b, ops := chain(t)
	b.d.Description = "Skirt block"
	_, lib := newLibrary(t, b.d)

	rev, err := lib.Save(t.Context(), "first cut")

	require.NoError(t, err)
	assert.NotEmpty(t, rev.ID)
	assert.Equal(t, "test-drafting", rev.DraftingID)
	assert.Equal(t, "Skirt block", rev.Name)
	assert.Equal(t, "first cut", rev.Message)
	assert.Equal(t, len(ops), rev.Operations)
	assert.Equal(t, 5, rev.Entities)
	assert.Contains(t, string(rev.Content), `kind="end_line"`)
	assert.WithinDuration(t, time.Now(), rev.CreatedAt, time.Minute)

	summaries, err := lib.List(t.Context())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Revisions)
}

func TestLibraryService_Save_NoDrafting(t *testing.T) {
	_, lib := newLibrary(t, nil)

	_, err := lib.Save(t.Context(), "")
	assert.ErrorIs(t, err, domain.ErrNoDrafting)
}

func TestLibraryService_Restore(t *testing.T) {
	b, ops := chain(t)
	f, lib := newLibrary(t, b.d)
	first, err := lib.Save(t.Context(), "before")
	require.NoError(t, err)

	_, err = f.history.EditOperation(ops[1].ID, map[string]string{"length": "20"})
	require.NoError(t, err)
	second, err := lib.Save(t.Context(), "after")
	require.NoError(t, err)

	revs, err := lib.Revisions(t.Context(), "test-drafting")
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, second.ID, revs[0].ID)

	// A revision id restores that revision.
	outcome, err := lib.Restore(t.Context(), first.ID, "")
	require.NoError(t, err)
	assert.True(t, outcome.OK())
	formulas, err := f.query.FormulaOf(ops[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "10", formulas["length"])
	assert.Empty(t, f.drafting.Path())

	// A drafting id restores its latest revision.
	_, err = lib.Restore(t.Context(), "test-drafting", "")
	require.NoError(t, err)
	formulas, err = f.query.FormulaOf(ops[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "20", formulas["length"])
}

func TestLibraryService_Restore_ResetsHistory(t *testing.T) {
	b, ops := chain(t)
	f, lib := newLibrary(t, b.d)
	rev, err := lib.Save(t.Context(), "")
	require.NoError(t, err)
	_, err = f.history.RemoveOperation(ops[3].ID)
	require.NoError(t, err)

	_, err = lib.Restore(t.Context(), rev.ID, "")
	require.NoError(t, err)

	_, err = f.history.Undo()
	assert.ErrorIs(t, err, domain.ErrNothingToUndo)
}

func TestLibraryService_Restore_Unknown(t *testing.T) {
	_, lib := newLibrary(t, nil)

	_, err := lib.Restore(t.Context(), "nope", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLibraryService_Delete(t *testing.T) {
	b, _ := chain(t)
	_, lib := newLibrary(t, b.d)
	_, err := lib.Save(t.Context(), "")
	require.NoError(t, err)

	require.NoError(t, lib.Delete(t.Context(), "test-drafting"))

	summaries, err := lib.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.ErrorIs(t, lib.Delete(t.Context(), "test-drafting"), domain.ErrNotFound)
}
