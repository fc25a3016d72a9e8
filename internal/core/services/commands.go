package services

import (
	"fmt"
	"slices"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/formula"
)

// Command is a reversible edit of a drafting. Apply and Revert return the
// index of the earliest operation whose result may have changed; 0 means
// the namespace itself changed.
type Command interface {
	Apply(d *domain.Drafting) (int, error)
	Revert(d *domain.Drafting) (int, error)
	Describe() string
}

// graphChecker is implemented by commands that must be checked against the
// dependency graph of the drafting before they are applied.
type graphChecker interface {
	check(g *Graph) error
}

// AddOperationCmd appends an operation.
type AddOperationCmd struct {
	Op domain.Operation
}

func (c *AddOperationCmd) Apply(d *domain.Drafting) (int, error) {
	if d.Index(c.Op.ID) >= 0 {
		return 0, fmt.Errorf("%w: operation %d", domain.ErrDuplicateID, c.Op.ID)
	}
	d.Operations = append(d.Operations, c.Op.Clone())
	d.NextID = max(d.NextID, c.Op.ID+1)
	for _, out := range c.Op.Outputs {
		d.NextID = max(d.NextID, out+1)
	}
	return len(d.Operations) - 1, nil
}

func (c *AddOperationCmd) Revert(d *domain.Drafting) (int, error) {
	i := d.Index(c.Op.ID)
	if i < 0 {
		return 0, fmt.Errorf("%w: operation %d", domain.ErrNotFound, c.Op.ID)
	}
	d.Operations = slices.Delete(d.Operations, i, i+1)
	return i, nil
}

func (c *AddOperationCmd) Describe() string {
	return fmt.Sprintf("add %s %s", c.Op.Kind(), describeOp(c.Op))
}

// RemoveOperationCmd deletes an operation that nothing depends on.
type RemoveOperationCmd struct {
	OpID domain.ID

	removed domain.Operation
	index   int
}

func (c *RemoveOperationCmd) check(g *Graph) error {
	return g.CheckRemove(c.OpID)
}

func (c *RemoveOperationCmd) Apply(d *domain.Drafting) (int, error) {
	i := d.Index(c.OpID)
	if i < 0 {
		return 0, fmt.Errorf("%w: operation %d", domain.ErrNotFound, c.OpID)
	}
	c.removed = d.Operations[i].Clone()
	c.index = i
	d.Operations = slices.Delete(d.Operations, i, i+1)
	return i, nil
}

func (c *RemoveOperationCmd) Revert(d *domain.Drafting) (int, error) {
	if c.index > len(d.Operations) {
		return 0, fmt.Errorf("%w: index %d", domain.ErrInvalidInput, c.index)
	}
	d.Operations = slices.Insert(d.Operations, c.index, c.removed.Clone())
	return c.index, nil
}

func (c *RemoveOperationCmd) Describe() string {
	if c.removed.Params == nil {
		return fmt.Sprintf("remove operation %d", c.OpID)
	}
	return fmt.Sprintf("remove %s %s", c.removed.Kind(), describeOp(c.removed))
}

// EditOperationCmd replaces an operation's parameters with ones of the same kind.
type EditOperationCmd struct {
	OpID   domain.ID
	Params domain.Params

	previous domain.Params
}

func (c *EditOperationCmd) Apply(d *domain.Drafting) (int, error) {
	i := d.Index(c.OpID)
	if i < 0 {
		return 0, fmt.Errorf("%w: operation %d", domain.ErrNotFound, c.OpID)
	}
	op := &d.Operations[i]
	if c.Params == nil || c.Params.Kind() != op.Kind() {
		return 0, fmt.Errorf("%w: operation %d is %s", domain.ErrTypeMismatch, c.OpID, op.Kind())
	}
	c.previous = op.Params
	op.Params = domain.CloneParams(c.Params)
	if err := op.Validate(); err != nil {
		op.Params = c.previous
		return 0, err
	}
	return i, nil
}

func (c *EditOperationCmd) Revert(d *domain.Drafting) (int, error) {
	i := d.Index(c.OpID)
	if i < 0 {
		return 0, fmt.Errorf("%w: operation %d", domain.ErrNotFound, c.OpID)
	}
	d.Operations[i].Params = domain.CloneParams(c.previous)
	return i, nil
}

func (c *EditOperationCmd) Describe() string {
	return fmt.Sprintf("edit operation %d", c.OpID)
}

// MoveOperationCmd moves an operation within the list.
type MoveOperationCmd struct {
	OpID domain.ID
	To   int

	from int
}

func (c *MoveOperationCmd) check(g *Graph) error {
	return g.CheckMove(c.OpID, c.To)
}

func (c *MoveOperationCmd) Apply(d *domain.Drafting) (int, error) {
	i := d.Index(c.OpID)
	if i < 0 {
		return 0, fmt.Errorf("%w: operation %d", domain.ErrNotFound, c.OpID)
	}
	if c.To < 0 || c.To >= len(d.Operations) {
		return 0, fmt.Errorf("%w: index %d out of range", domain.ErrInvalidInput, c.To)
	}
	c.from = i
	moveOperation(d, i, c.To)
	return min(i, c.To), nil
}

func (c *MoveOperationCmd) Revert(d *domain.Drafting) (int, error) {
	moveOperation(d, c.To, c.from)
	return min(c.from, c.To), nil
}

func (c *MoveOperationCmd) Describe() string {
	return fmt.Sprintf("move operation %d to %d", c.OpID, c.To)
}

func moveOperation(d *domain.Drafting, from, to int) {
	op := d.Operations[from]
	d.Operations = slices.Delete(d.Operations, from, from+1)
	d.Operations = slices.Insert(d.Operations, to, op)
}

// RenameLabelCmd renames a point or detail and rewrites every formula that
// names a variable derived from it.
type RenameLabelCmd struct {
	Old string
	New string

	first    int
	previous map[domain.ID]domain.Params
}

func (c *RenameLabelCmd) Apply(d *domain.Drafting) (int, error) {
	if err := domain.ValidateLabel(c.New); err != nil {
		return 0, err
	}
	target := -1
	for i, op := range d.Operations {
		switch op.Params.Label() {
		case c.Old:
			target = i
		case c.New:
			return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateLabel, c.New)
		}
	}
	if target < 0 {
		return 0, fmt.Errorf("%w: label %s", domain.ErrNotFound, c.Old)
	}

	rename := func(name string) string {
		return domain.RenameInDerivedName(name, c.Old, c.New)
	}
	c.first = target
	c.previous = make(map[domain.ID]domain.Params)
	for i := range d.Operations {
		op := &d.Operations[i]
		next := op.Params
		if i == target {
			next = next.WithLabel(c.New)
		}
		for _, f := range next.Formulas() {
			expr, err := formula.RenameIdentifiers(f.Expr, rename)
			if err != nil || expr == f.Expr {
				// Unparsable formulas are left for recompute to report.
				continue
			}
			if next, err = next.WithFormula(f.Field, expr); err != nil {
				c.restore(d)
				return 0, err
			}
		}
		if i == target || !sameFormulas(op.Params, next) {
			c.previous[op.ID] = op.Params
			op.Params = next
		}
	}
	return target, nil
}

func (c *RenameLabelCmd) Revert(d *domain.Drafting) (int, error) {
	c.restore(d)
	return c.first, nil
}

func (c *RenameLabelCmd) restore(d *domain.Drafting) {
	for i := range d.Operations {
		if p, ok := c.previous[d.Operations[i].ID]; ok {
			d.Operations[i].Params = p
		}
	}
}

func (c *RenameLabelCmd) Describe() string {
	return fmt.Sprintf("rename %s to %s", c.Old, c.New)
}

func sameFormulas(a, b domain.Params) bool {
	return slices.Equal(a.Formulas(), b.Formulas())
}

// SetIncrementCmd adds an increment or replaces the one with the same name.
type SetIncrementCmd struct {
	Increment domain.Increment

	previous *domain.Increment
}

func (c *SetIncrementCmd) Apply(d *domain.Drafting) (int, error) {
	if err := domain.ValidateIncrementName(c.Increment.Name); err != nil {
		return 0, err
	}
	c.previous = nil
	if i := d.IncrementIndex(c.Increment.Name); i >= 0 {
		prev := d.Increments[i]
		c.previous = &prev
		d.Increments[i] = c.Increment
		return 0, nil
	}
	d.Increments = append(d.Increments, c.Increment)
	return 0, nil
}

func (c *SetIncrementCmd) Revert(d *domain.Drafting) (int, error) {
	i := d.IncrementIndex(c.Increment.Name)
	if i < 0 {
		return 0, fmt.Errorf("%w: increment %s", domain.ErrNotFound, c.Increment.Name)
	}
	if c.previous != nil {
		d.Increments[i] = *c.previous
	} else {
		d.Increments = slices.Delete(d.Increments, i, i+1)
	}
	return 0, nil
}

func (c *SetIncrementCmd) Describe() string {
	return fmt.Sprintf("set %s = %s", c.Increment.Name, c.Increment.Formula)
}

// RemoveIncrementCmd deletes an increment no formula references.
type RemoveIncrementCmd struct {
	Name string

	removed domain.Increment
	index   int
}

func (c *RemoveIncrementCmd) check(g *Graph) error {
	return g.CheckRemoveName(c.Name)
}

func (c *RemoveIncrementCmd) Apply(d *domain.Drafting) (int, error) {
	i := d.IncrementIndex(c.Name)
	if i < 0 {
		return 0, fmt.Errorf("%w: increment %s", domain.ErrNotFound, c.Name)
	}
	c.removed = d.Increments[i]
	c.index = i
	d.Increments = slices.Delete(d.Increments, i, i+1)
	return 0, nil
}

func (c *RemoveIncrementCmd) Revert(d *domain.Drafting) (int, error) {
	d.Increments = slices.Insert(d.Increments, min(c.index, len(d.Increments)), c.removed)
	return 0, nil
}

func (c *RemoveIncrementCmd) Describe() string {
	return "remove " + c.Name
}

func describeOp(op domain.Operation) string {
	if label := op.Params.Label(); label != "" {
		return fmt.Sprintf("%s (%d)", label, op.ID)
	}
	return fmt.Sprintf("%d", op.ID)
}
