package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/core/domain"
)

func TestLibraryCmds_SaveListLog(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "library", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "The library is empty.")

	out, err = execute(t, "library", "save", "-m", "first fitting", env.path)
	require.NoError(t, err)
	assert.Contains(t, out, "of bodice")
	assert.Contains(t, out, "3 operations, 5 entities")

	out, err = execute(t, "library", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "bodice")
	assert.Contains(t, out, "Revisions: 1")
	assert.Contains(t, out, "Total: 1 draftings")

	out, err = execute(t, "library", "log", "bodice")
	require.NoError(t, err)
	assert.Contains(t, out, "first fitting")

	out, err = execute(t, "library", "log", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "No revisions found")
}

func TestLibraryCmds_Restore(t *testing.T) {
	env := setupTestServices(t)
	_, err := execute(t, "library", "save", env.path)
	require.NoError(t, err)
	_, err = execute(t, "edit", env.path, "3", "length=4")
	require.NoError(t, err)

	target := filepath.Join(env.dir, "restored.xml")
	out, err := execute(t, "library", "restore", "bodice", target)

	require.NoError(t, err)
	assert.Contains(t, out, "Restored bodice to "+target)
	assert.Equal(t, "10", evalIn(t, target, "Line_A_B"))
	assert.Equal(t, "4", evalIn(t, env.path, "Line_A_B"))
}

func TestLibraryCmds_RestoreUnknown(t *testing.T) {
	env := setupTestServices(t)

	_, err := execute(t, "library", "restore", "nope", filepath.Join(env.dir, "x.xml"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLibraryCmds_Delete(t *testing.T) {
	env := setupTestServices(t)
	_, err := execute(t, "library", "save", env.path)
	require.NoError(t, err)

	out, err := execute(t, "library", "delete", "bodice")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted drafting bodice")

	out, err = execute(t, "library", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "The library is empty.")
}
