package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	for _, u := range Units() {
		got, err := ParseUnit(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}

	got, err := ParseUnit("in")
	require.NoError(t, err)
	assert.Equal(t, UnitInch, got)

	_, err = ParseUnit("CM")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnit_Convert(t *testing.T) {
	tests := []struct {
		from, to Unit
		in, want float64
	}{
		{UnitCentimeter, UnitMillimeter, 3, 30},
		{UnitMeter, UnitCentimeter, 1.5, 150},
		{UnitInch, UnitCentimeter, 1, 2.54},
		{UnitInch, UnitPixel, 1, 96},
		{UnitMillimeter, UnitMillimeter, 7, 7},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.from.Convert(tt.in, tt.to), 1e-9)
		})
	}
}

func TestDerivedNames(t *testing.T) {
	assert.Equal(t, "Line_A_B", DerivedName(PrefixLine, "A", "B"))
	assert.True(t, IsDerivedName("AngleLine_A_B"))
	assert.True(t, IsDerivedName("SplPath_A_D"))
	assert.False(t, IsDerivedName("waist"))
	assert.False(t, IsDerivedName("Waist_front"))

	assert.Equal(t, "Line_O_B", RenameInDerivedName("Line_A_B", "A", "O"))
	assert.Equal(t, "Line_AA_B", RenameInDerivedName("Line_AA_B", "A", "O"))
	assert.Equal(t, "front_A", RenameInDerivedName("front_A", "A", "O"))
}

func TestValidateNames(t *testing.T) {
	assert.NoError(t, ValidateMeasurementName("waist"))
	assert.ErrorIs(t, ValidateMeasurementName(""), ErrInvalidInput)
	assert.ErrorIs(t, ValidateMeasurementName("#ease"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateMeasurementName("Line_A_B"), ErrInvalidInput)

	assert.NoError(t, ValidateIncrementName("#ease"))
	assert.ErrorIs(t, ValidateIncrementName("#"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateIncrementName("ease"), ErrInvalidInput)

	assert.NoError(t, ValidateLabel("A1"))
	assert.NoError(t, ValidateLabel("Ä"))
	assert.ErrorIs(t, ValidateLabel("1A"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateLabel("A_B"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateLabel(""), ErrInvalidInput)
}
