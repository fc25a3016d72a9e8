package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/formula"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

// Graph is the dependency graph between the operations of a drafting.
// An operation depends on another when it references one of its outputs
// by id or names one of the variables derived from them in a formula.
type Graph struct {
	order   []domain.ID
	index   map[domain.ID]int
	deps    map[domain.ID][]domain.ID
	users   map[domain.ID][]domain.ID
	missing map[domain.ID][]domain.ID

	// readers maps formula names to the operations and increments naming them.
	readers map[string][]string
}

// BuildGraph computes the graph of d. Formula names are mapped to their
// producing operation through the variable store when it knows them, and
// otherwise through the point labels embedded in derived names. vars may
// be nil.
func BuildGraph(d *domain.Drafting, ev *formula.Evaluator, vars driven.VariableStore) *Graph {
	g := &Graph{
		index:   make(map[domain.ID]int, len(d.Operations)),
		deps:    make(map[domain.ID][]domain.ID),
		users:   make(map[domain.ID][]domain.ID),
		missing: make(map[domain.ID][]domain.ID),
		readers: make(map[string][]string),
	}
	producer := make(map[domain.ID]domain.ID)
	byLabel := make(map[string]domain.ID)
	for i, op := range d.Operations {
		g.order = append(g.order, op.ID)
		g.index[op.ID] = i
		for _, out := range op.Outputs {
			producer[out] = op.ID
		}
		if op.Params != nil {
			if label := op.Params.Label(); label != "" {
				byLabel[label] = op.ID
			}
		}
	}

	for _, op := range d.Operations {
		if op.Params == nil {
			continue
		}
		var deps []domain.ID
		for _, ref := range op.Params.Refs() {
			if p, ok := producer[ref]; ok {
				deps = append(deps, p)
			} else {
				g.missing[op.ID] = append(g.missing[op.ID], ref)
			}
		}
		for _, f := range op.Params.Formulas() {
			names, err := ev.Identifiers(f.Expr)
			if err != nil {
				// Syntax errors surface on recompute.
				continue
			}
			for _, name := range names {
				g.readers[name] = append(g.readers[name], fmt.Sprintf("operation %d", op.ID))
				ops, lost := nameProducers(name, vars, producer, byLabel)
				deps = append(deps, ops...)
				if lost != 0 {
					g.missing[op.ID] = append(g.missing[op.ID], lost)
				}
			}
		}
		slices.Sort(deps)
		deps = slices.Compact(deps)
		deps = slices.DeleteFunc(deps, func(id domain.ID) bool { return id == op.ID })
		g.deps[op.ID] = deps
		for _, dep := range deps {
			g.users[dep] = append(g.users[dep], op.ID)
		}
	}
	for _, inc := range d.Increments {
		names, err := ev.Identifiers(inc.Formula)
		if err != nil {
			continue
		}
		for _, name := range names {
			if name != inc.Name {
				g.readers[name] = append(g.readers[name], inc.Name)
			}
		}
	}
	for name, rs := range g.readers {
		g.readers[name] = slices.Compact(rs)
	}
	return g
}

// nameProducers returns the operations a formula name depends on. When
// the name is a known variable whose source entity no longer has a
// producer, that entity is returned as lost.
func nameProducers(name string, vars driven.VariableStore, producer map[domain.ID]domain.ID, byLabel map[string]domain.ID) ([]domain.ID, domain.ID) {
	if vars != nil {
		if v, err := vars.Get(name); err == nil {
			if v.Source == 0 {
				return nil, 0
			}
			if p, ok := producer[v.Source]; ok {
				return []domain.ID{p}, 0
			}
			return nil, v.Source
		}
	}
	if !domain.IsDerivedName(name) {
		return nil, 0
	}
	var out []domain.ID
	for _, part := range strings.Split(name, "_")[1:] {
		if p, ok := byLabel[part]; ok {
			out = append(out, p)
			continue
		}
		// Arc names carry the arc's entity id.
		if n, err := strconv.ParseUint(part, 10, 32); err == nil {
			if p, ok := producer[domain.ID(n)]; ok {
				out = append(out, p)
			}
		}
	}
	return out, 0
}

// Dependencies returns the operations opID directly depends on.
func (g *Graph) Dependencies(opID domain.ID) []domain.ID {
	return slices.Clone(g.deps[opID])
}

// Dependents returns the operations that directly depend on opID, in list order.
func (g *Graph) Dependents(opID domain.ID) []domain.ID {
	users := slices.Clone(g.users[opID])
	slices.SortFunc(users, func(a, b domain.ID) int { return g.index[a] - g.index[b] })
	return users
}

// Downstream returns every operation transitively depending on opID, in list order.
func (g *Graph) Downstream(opID domain.ID) []domain.ID {
	seen := map[domain.ID]bool{}
	queue := []domain.ID{opID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, u := range g.users[id] {
			if !seen[u] {
				seen[u] = true
				queue = append(queue, u)
			}
		}
	}
	var out []domain.ID
	for _, id := range g.order {
		if seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// Validate checks that list order is a dependency order: every
// operation only depends on strictly earlier ones and every referenced
// entity is produced by some operation.
func (g *Graph) Validate() error {
	for i, id := range g.order {
		if refs := g.missing[id]; len(refs) > 0 {
			return fmt.Errorf("%w: operation %d references unknown entities %v", domain.ErrDependencyViolation, id, refs)
		}
		for _, dep := range g.deps[id] {
			if g.index[dep] >= i {
				return fmt.Errorf("%w: operation %d depends on later operation %d", domain.ErrDependencyViolation, id, dep)
			}
		}
	}
	return nil
}

// TopologicalOrder returns the operations in a dependency order computed
// from the graph alone, independent of list order. Ties keep list order.
func (g *Graph) TopologicalOrder() ([]domain.ID, error) {
	indegree := make(map[domain.ID]int, len(g.order))
	for _, id := range g.order {
		indegree[id] = len(g.deps[id])
	}
	var ready, out []domain.ID
	for _, id := range g.order {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		out = append(out, id)
		for _, u := range g.Dependents(id) {
			indegree[u]--
			if indegree[u] == 0 {
				ready = append(ready, u)
			}
		}
	}
	if len(out) != len(g.order) {
		return nil, fmt.Errorf("%w: dependency cycle", domain.ErrDependencyViolation)
	}
	return out, nil
}

// CheckRemove rejects removing an operation that others depend on.
func (g *Graph) CheckRemove(opID domain.ID) error {
	if _, ok := g.index[opID]; !ok {
		return fmt.Errorf("%w: operation %d", domain.ErrNotFound, opID)
	}
	if users := g.Dependents(opID); len(users) > 0 {
		return fmt.Errorf("%w: operations %v depend on operation %d", domain.ErrDependencyViolation, users, opID)
	}
	return nil
}

// CheckMove rejects moving an operation to index when that would place it
// before one of its dependencies or after one of its dependents.
func (g *Graph) CheckMove(opID domain.ID, to int) error {
	from, ok := g.index[opID]
	if !ok {
		return fmt.Errorf("%w: operation %d", domain.ErrNotFound, opID)
	}
	if to < 0 || to >= len(g.order) {
		return fmt.Errorf("%w: index %d out of range", domain.ErrInvalidInput, to)
	}
	switch {
	case to < from:
		for _, dep := range g.deps[opID] {
			if g.index[dep] >= to {
				return fmt.Errorf("%w: operation %d must stay after operation %d", domain.ErrDependencyViolation, opID, dep)
			}
		}
	case to > from:
		for _, u := range g.users[opID] {
			if g.index[u] <= to {
				return fmt.Errorf("%w: operation %d must stay before operation %d", domain.ErrDependencyViolation, opID, u)
			}
		}
	}
	return nil
}

// CheckRemoveName rejects removing a namespace name that formulas still use.
func (g *Graph) CheckRemoveName(name string) error {
	if rs := g.readers[name]; len(rs) > 0 {
		return fmt.Errorf("%w: %s is used by %s", domain.ErrDependencyViolation, name, strings.Join(rs, ", "))
	}
	return nil
}
