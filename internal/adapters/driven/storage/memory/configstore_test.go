package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore(nil)
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestNewConfigStore_CopiesSeed(t *testing.T) {
	seed := map[string]any{"history.max_depth": 5}
	store := NewConfigStore(seed)
	seed["history.max_depth"] = 9

	assert.Equal(t, 5, store.GetInt("history.max_depth"))
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore(nil)

	require.NoError(t, store.Set("drafting.default_unit", "cm"))
	require.NoError(t, store.Set("drafting.default_unit", "mm"))

	val, ok := store.Get("drafting.default_unit")
	assert.True(t, ok)
	assert.Equal(t, "mm", val)
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"int":    3,
		"int64":  int64(4),
		"float":  5.0,
		"string": "6",
		"bad":    "six",
	})

	tests := []struct {
		key      string
		expected int
	}{
		{"int", 3},
		{"int64", 4},
		{"float", 5},
		{"string", 6},
		{"bad", 0},
		{"missing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, store.GetInt(tt.key))
		})
	}
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore(map[string]any{"on": true, "text": "true", "num": 1})

	assert.True(t, store.GetBool("on"))
	assert.True(t, store.GetBool("text"))
	assert.False(t, store.GetBool("num"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store := NewConfigStore(map[string]any{"n": 1})
	assert.Equal(t, "", store.GetString("n"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_SaveLoad_NoOp(t *testing.T) {
	store := NewConfigStore(nil)
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}
