package measurements

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestSource_Load_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "standard.toml", `
unit = "cm"

[measurements]
waist = 70
hip = 96.5
`)

	m, err := NewSource().Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, domain.UnitCentimeter, m.Unit)
	assert.Equal(t, map[string]float64{"waist": 70, "hip": 96.5}, m.Values)
}

func TestSource_Load_YAML(t *testing.T) {
	dir := t.TempDir()
	content := `
unit: in
measurements:
  waist: 28
  inseam: 32.5
`
	for _, name := range []string{"sizes.yaml", "sizes.yml"} {
		t.Run(name, func(t *testing.T) {
			m, err := NewSource().Load(context.Background(), writeFile(t, dir, name, content))

			require.NoError(t, err)
			assert.Equal(t, domain.UnitInch, m.Unit)
			assert.Equal(t, map[string]float64{"waist": 28, "inseam": 32.5}, m.Values)
		})
	}
}

func TestSource_Load_NoValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.toml", `unit = "mm"`)

	m, err := NewSource().Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, domain.UnitMillimeter, m.Unit)
	assert.NotNil(t, m.Values)
	assert.Empty(t, m.Values)
}

func TestSource_Load_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"no unit", "a.toml", "[measurements]\nwaist = 70\n", domain.ErrInvalidInput},
		{"unknown unit", "b.toml", "unit = \"ell\"\n", domain.ErrInvalidInput},
		{"bad toml", "c.toml", "unit = \n", domain.ErrInvalidInput},
		{"unknown toml key", "d.toml", "unit = \"cm\"\n[measurement]\nwaist = 1\n", domain.ErrInvalidInput},
		{"non numeric value", "e.yaml", "unit: cm\nmeasurements:\n  waist: wide\n", domain.ErrInvalidInput},
		{"unknown yaml key", "f.yaml", "unit: cm\nsizes:\n  waist: 1\n", domain.ErrInvalidInput},
		{"empty yaml", "g.yaml", "", domain.ErrInvalidInput},
		{"unsupported extension", "h.json", `{"unit": "cm"}`, domain.ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource().Load(context.Background(), writeFile(t, dir, tt.file, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSource_Load_MissingFile(t *testing.T) {
	_, err := NewSource().Load(context.Background(), filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSource_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSource().Load(ctx, "whatever.toml")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".toml", ".yaml", ".yml"}, Extensions())
}
