package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/core/domain"
)

func TestSettingsCmd_ShowsDefaults(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Max depth: 100 edits")
	assert.Contains(t, out, "Default unit: cm")
	assert.Contains(t, out, "Directory: (default)")
	assert.Contains(t, out, "Max rate: 2/s")
	assert.NotContains(t, out, "Warning:")
}

func TestSettingsSetCmd(t *testing.T) {
	setupTestServices(t)

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"history.max_depth", "0", "Max depth: unbounded"},
		{"drafting.default_unit", "mm", "Default unit: mm"},
		{"library.dir", "/tmp/patterns", "Directory: /tmp/patterns"},
		{"Watch.Max_Rate", "5", "Max rate: 5/s"},
		{"output.color", "false", "Color: no"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			out, err := execute(t, "settings", "set", tt.key, tt.value)
			require.NoError(t, err)
			assert.Contains(t, out, "set to "+tt.value)

			out, err = execute(t, "settings", "show")
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSettingsSetCmd_Invalid(t *testing.T) {
	setupTestServices(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"settings", "set", "colour", "true"}},
		{"not a number", []string{"settings", "set", "history.max_depth", "many"}},
		{"bad unit", []string{"settings", "set", "drafting.default_unit", "furlong"}},
		{"bad bool", []string{"settings", "set", "output.color", "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestFormatDepth(t *testing.T) {
	assert.Equal(t, "unbounded", formatDepth(0))
	assert.Equal(t, "25 edits", formatDepth(25))
}
