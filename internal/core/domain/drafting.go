package domain

import (
	"fmt"
	"slices"
)

// CurrentVersion is the document schema version written on save.
const CurrentVersion = "1.0"

// Drafting is the unit of persistence: an ordered list of construction
// operations plus document metadata.
type Drafting struct {
	// ID is a stable document identifier (UUID).
	ID string

	// Version is the document schema version.
	Version string

	// Unit is the working length unit of every formula in the document.
	Unit Unit

	// Author, Description and Notes are free text.
	Author      string
	Description string
	Notes       string

	// MeasurementsPath locates the measurement file, relative to the document.
	MeasurementsPath string

	// Increments are evaluated in order before any operation.
	Increments []Increment

	// Operations are stored in creation order, which is a dependency order.
	Operations []Operation

	// NextID is the next id to hand out. Operation and entity ids share it.
	NextID ID
}

// NewDrafting creates an empty drafting.
func NewDrafting(id string, unit Unit) *Drafting {
	return &Drafting{
		ID:      id,
		Version: CurrentVersion,
		Unit:    unit,
		NextID:  1,
	}
}

// Allocate hands out the next id. Ids are never reused.
func (d *Drafting) Allocate() ID {
	if d.NextID == 0 {
		d.NextID = 1
	}
	id := d.NextID
	d.NextID++
	return id
}

// NewOperation allocates ids for an operation of the given params and its outputs.
func (d *Drafting) NewOperation(group string, params Params) Operation {
	op := Operation{ID: d.Allocate(), Group: group, Params: params}
	for range params.Kind().Outputs() {
		op.Outputs = append(op.Outputs, d.Allocate())
	}
	return op
}

// Index returns the position of the operation with the given id, or -1.
func (d *Drafting) Index(opID ID) int {
	return slices.IndexFunc(d.Operations, func(op Operation) bool { return op.ID == opID })
}

// Operation returns the operation with the given id.
func (d *Drafting) Operation(opID ID) (*Operation, error) {
	i := d.Index(opID)
	if i < 0 {
		return nil, fmt.Errorf("%w: operation %d", ErrNotFound, opID)
	}
	return &d.Operations[i], nil
}

// Producer returns the index of the operation that outputs the entity, or -1.
func (d *Drafting) Producer(entityID ID) int {
	return slices.IndexFunc(d.Operations, func(op Operation) bool {
		return slices.Contains(op.Outputs, entityID)
	})
}

// IncrementIndex returns the position of the named increment, or -1.
func (d *Drafting) IncrementIndex(name string) int {
	return slices.IndexFunc(d.Increments, func(inc Increment) bool { return inc.Name == name })
}

// Clone returns a deep copy.
func (d *Drafting) Clone() *Drafting {
	c := *d
	c.Increments = slices.Clone(d.Increments)
	c.Operations = make([]Operation, len(d.Operations))
	for i := range d.Operations {
		c.Operations[i] = d.Operations[i].Clone()
	}
	if d.Operations == nil {
		c.Operations = nil
	}
	return &c
}

// MaxID returns the largest id assigned to any operation or output.
func (d *Drafting) MaxID() ID {
	var maxID ID
	for _, op := range d.Operations {
		maxID = max(maxID, op.ID)
		for _, out := range op.Outputs {
			maxID = max(maxID, out)
		}
	}
	return maxID
}

// Validate checks structural invariants: ids unique across the whole
// document, operations well formed, point labels and increment names unique.
func (d *Drafting) Validate() error {
	if !d.Unit.IsValid() {
		return fmt.Errorf("%w: unit %q", ErrInvalidInput, d.Unit)
	}
	seen := make(map[ID]bool)
	claim := func(id ID) error {
		if seen[id] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}
		seen[id] = true
		return nil
	}
	points := make(map[string]ID)
	for i := range d.Operations {
		op := &d.Operations[i]
		if err := op.Validate(); err != nil {
			return err
		}
		if op.Kind().Outputs()[0] == EntityPoint {
			label := op.Params.Label()
			if other, ok := points[label]; ok {
				return fmt.Errorf("%w: %s is already point of operation %d", ErrDuplicateLabel, label, other)
			}
			points[label] = op.ID
		}
		if err := claim(op.ID); err != nil {
			return err
		}
		for _, out := range op.Outputs {
			if err := claim(out); err != nil {
				return err
			}
		}
	}
	if d.NextID <= d.MaxID() {
		return fmt.Errorf("%w: next id %d does not exceed assigned id %d", ErrDuplicateID, d.NextID, d.MaxID())
	}
	names := make(map[string]bool)
	for _, inc := range d.Increments {
		if err := ValidateIncrementName(inc.Name); err != nil {
			return err
		}
		if names[inc.Name] {
			return fmt.Errorf("%w: increment %s", ErrDuplicateName, inc.Name)
		}
		names[inc.Name] = true
	}
	return nil
}

// Measurements is a set of named body measurements in a declared unit.
type Measurements struct {
	// Unit must equal the drafting unit.
	Unit Unit

	// Values maps measurement names to values in Unit.
	Values map[string]float64
}

// Lookup returns the named measurement.
func (m *Measurements) Lookup(name string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.Values[name]
	return v, ok
}

// Names returns the measurement names in sorted order.
func (m *Measurements) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
