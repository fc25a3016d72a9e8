package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/core/domain"
)

func TestVariableStore_Define_Resolve(t *testing.T) {
	store := NewVariableStore()
	require.NoError(t, store.Define(domain.Variable{Name: "Bust", Kind: domain.VarMeasurement, Value: 92}))

	v, ok := store.Resolve("Bust")
	assert.True(t, ok)
	assert.Equal(t, 92.0, v)

	_, ok = store.Resolve("bust")
	assert.False(t, ok, "names are case sensitive")
}

func TestVariableStore_Define_Duplicate(t *testing.T) {
	store := NewVariableStore()
	require.NoError(t, store.Define(domain.Variable{Name: "Line_A_B", Kind: domain.VarLineLength, Value: 1}))

	err := store.Define(domain.Variable{Name: "Line_A_B", Kind: domain.VarLineLength, Value: 2})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	v, err := store.Get("Line_A_B")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Value)
}

func TestVariableStore_Define_EmptyName(t *testing.T) {
	err := NewVariableStore().Define(domain.Variable{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVariableStore_Get_NotFound(t *testing.T) {
	_, err := NewVariableStore().Get("x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVariableStore_Truncate(t *testing.T) {
	store := NewVariableStore()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, store.Define(domain.Variable{Name: name}))
	}

	store.Truncate(1)
	assert.Equal(t, 1, store.Len())
	_, ok := store.Resolve("b")
	assert.False(t, ok)
	require.NoError(t, store.Define(domain.Variable{Name: "b"}))

	names := []string{}
	for _, v := range store.List() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)

	store.Clear()
	assert.Equal(t, 0, store.Len())
}
