package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// newRevision builds a revision saved at the given offset from a fixed time.
func newRevision(id, draftingID string, minute int) *domain.Revision {
	return &domain.Revision{
		ID:         id,
		DraftingID: draftingID,
		Name:       "bodice",
		Message:    fmt.Sprintf("revision %s", id),
		Operations: 4,
		Entities:   5,
		Content:    []byte(`<drafting unit="cm"/>`),
		CreatedAt:  time.Date(2026, 3, 1, 10, minute, 0, 0, time.UTC),
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "library.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, dir)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.LibraryStore().SaveRevision(ctx, newRevision("r1", "d1", 0)))
	require.NoError(t, store.Close())

	// Migrations are not re-applied on an up-to-date database.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	rev, err := store.LibraryStore().GetRevision(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "d1", rev.DraftingID)
}

// ==================== Library Store Tests ====================

func TestLibraryStore_SaveAndGet(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()
	ctx := context.Background()
	want := newRevision("r1", "d1", 0)

	require.NoError(t, lib.SaveRevision(ctx, want))
	got, err := lib.GetRevision(ctx, "r1")

	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.DraftingID, got.DraftingID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Message, got.Message)
	assert.Equal(t, want.Operations, got.Operations)
	assert.Equal(t, want.Entities, got.Entities)
	assert.Equal(t, want.Content, got.Content)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestLibraryStore_SaveRevision_Duplicate(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()
	ctx := context.Background()
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r1", "d1", 0)))

	err := lib.SaveRevision(ctx, newRevision("r1", "d1", 1))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestLibraryStore_SaveRevision_RequiresIDs(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()

	err := lib.SaveRevision(context.Background(), newRevision("", "d1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = lib.SaveRevision(context.Background(), newRevision("r1", "", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLibraryStore_GetRevision_NotFound(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()

	_, err := lib.GetRevision(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLibraryStore_LatestRevision(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()
	ctx := context.Background()
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r1", "d1", 0)))
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r2", "d1", 1)))
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r3", "d2", 2)))

	rev, err := lib.LatestRevision(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "r2", rev.ID)
	assert.NotEmpty(t, rev.Content)

	_, err = lib.LatestRevision(ctx, "d9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLibraryStore_ListRevisions(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()
	ctx := context.Background()
	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, lib.SaveRevision(ctx, newRevision(id, "d1", i)))
	}

	revs, err := lib.ListRevisions(ctx, "d1")

	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, "r3", revs[0].ID)
	assert.Equal(t, "r1", revs[2].ID)
	for _, rev := range revs {
		assert.Nil(t, rev.Content)
	}

	revs, err = lib.ListRevisions(ctx, "d2")
	require.NoError(t, err)
	assert.Empty(t, revs)
}

func TestLibraryStore_ListDraftings(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()
	ctx := context.Background()
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r1", "d1", 0)))
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r2", "d2", 1)))
	renamed := newRevision("r3", "d1", 2)
	renamed.Name = "bodice v2"
	require.NoError(t, lib.SaveRevision(ctx, renamed))

	summaries, err := lib.ListDraftings(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "d1", summaries[0].ID)
	assert.Equal(t, "bodice v2", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].Revisions)
	assert.True(t, renamed.CreatedAt.Equal(summaries[0].UpdatedAt))
	assert.Equal(t, "d2", summaries[1].ID)
	assert.Equal(t, 1, summaries[1].Revisions)
}

func TestLibraryStore_DeleteDrafting(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()
	ctx := context.Background()
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r1", "d1", 0)))
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r2", "d1", 1)))
	require.NoError(t, lib.SaveRevision(ctx, newRevision("r3", "d2", 2)))

	require.NoError(t, lib.DeleteDrafting(ctx, "d1"))

	_, err := lib.GetRevision(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	summaries, err := lib.ListDraftings(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "d2", summaries[0].ID)

	assert.ErrorIs(t, lib.DeleteDrafting(ctx, "d1"), domain.ErrNotFound)
}

func TestLibraryStore_ContextCancelled(t *testing.T) {
	lib := setupTestStore(t).LibraryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, lib.SaveRevision(ctx, newRevision("r1", "d1", 0)))
}
