package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample builds A, then B at the end of a line from A.
func sample() *Drafting {
	d := NewDrafting("doc", UnitCentimeter)
	a := d.NewOperation("", BasePoint{Name: "A", X: "0", Y: "0"})
	b := d.NewOperation("", EndLine{Name: "B", Base: a.Outputs[0], Length: "10", Angle: "0"})
	d.Operations = []Operation{a, b}
	d.Increments = []Increment{{Name: "#ease", Formula: "2"}}
	return d
}

func TestNewDrafting(t *testing.T) {
	d := NewDrafting("doc", UnitMillimeter)

	assert.Equal(t, CurrentVersion, d.Version)
	assert.Equal(t, UnitMillimeter, d.Unit)
	assert.Equal(t, ID(1), d.Allocate())
	assert.Equal(t, ID(2), d.Allocate())
}

func TestDrafting_NewOperation_AllocatesOutputs(t *testing.T) {
	d := sample()

	assert.Equal(t, ID(1), d.Operations[0].ID)
	assert.Equal(t, []ID{2}, d.Operations[0].Outputs)
	assert.Equal(t, ID(3), d.Operations[1].ID)
	assert.Equal(t, []ID{4, 5}, d.Operations[1].Outputs)
	assert.Equal(t, ID(6), d.NextID)
	assert.Equal(t, ID(5), d.MaxID())
}

func TestDrafting_Allocate_NeverReuses(t *testing.T) {
	d := sample()
	d.Operations = d.Operations[:1]

	assert.Equal(t, ID(6), d.Allocate())
}

func TestDrafting_Lookups(t *testing.T) {
	d := sample()

	assert.Equal(t, 1, d.Index(3))
	assert.Equal(t, -1, d.Index(4))
	assert.Equal(t, 1, d.Producer(5))
	assert.Equal(t, -1, d.Producer(3))
	assert.Equal(t, 0, d.IncrementIndex("#ease"))
	assert.Equal(t, -1, d.IncrementIndex("#other"))

	op, err := d.Operation(3)
	require.NoError(t, err)
	assert.Equal(t, KindEndLine, op.Kind())

	_, err = d.Operation(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDrafting_Clone(t *testing.T) {
	d := sample()

	c := d.Clone()
	c.Operations[0].Params = BasePoint{Name: "Z"}
	c.Increments[0].Formula = "3"

	assert.Equal(t, "A", d.Operations[0].Params.Label())
	assert.Equal(t, "2", d.Increments[0].Formula)
	assert.Equal(t, d.NextID, c.NextID)
}

func TestDrafting_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Drafting)
		wantErr error
	}{
		{"valid", func(*Drafting) {}, nil},
		{"unknown unit", func(d *Drafting) { d.Unit = "furlong" }, ErrInvalidInput},
		{"duplicate op id", func(d *Drafting) { d.Operations[1].ID = 1 }, ErrDuplicateID},
		{"output reuses op id", func(d *Drafting) { d.Operations[1].Outputs[1] = 3 }, ErrDuplicateID},
		{"next id too small", func(d *Drafting) { d.NextID = 5 }, ErrDuplicateID},
		{"bad increment", func(d *Drafting) { d.Increments[0].Name = "ease" }, ErrInvalidInput},
		{"duplicate increment", func(d *Drafting) {
			d.Increments = append(d.Increments, Increment{Name: "#ease", Formula: "1"})
		}, ErrDuplicateName},
		{"invalid operation", func(d *Drafting) { d.Operations[0].Outputs = nil }, ErrInvalidInput},
		{"duplicate point label", func(d *Drafting) {
			d.Operations[1].Params = d.Operations[1].Params.WithLabel("A")
		}, ErrDuplicateLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sample()
			tt.modify(d)

			err := d.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMeasurements(t *testing.T) {
	m := &Measurements{Unit: UnitCentimeter, Values: map[string]float64{"waist": 32, "hip": 40}}

	v, ok := m.Lookup("waist")
	assert.True(t, ok)
	assert.InDelta(t, 32, v, 0)
	_, ok = m.Lookup("neck")
	assert.False(t, ok)
	assert.Equal(t, []string{"hip", "waist"}, m.Names())

	var none *Measurements
	_, ok = none.Lookup("waist")
	assert.False(t, ok)
	assert.Nil(t, none.Names())
}

func TestRecomputeOutcome_OK(t *testing.T) {
	assert.True(t, RecomputeOutcome{Executed: 2}.OK())
	assert.False(t, RecomputeOutcome{Failure: &OperationError{OpID: 3}}.OK())
	assert.Equal(t, "revert", ResolveRevert.String())
	assert.Equal(t, "accept", ResolveAccept.String())
	assert.Equal(t, "unknown", Resolution(0).String())
}
