package formula

import (
	"fmt"
	"math"
	"strings"

	"github.com/seamwork/drafter/internal/core/domain"
)

// Resolver looks up variable values. Lookups must not mutate state.
type Resolver interface {
	Resolve(name string) (float64, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (float64, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(name string) (float64, bool) {
	return f(name)
}

// MapResolver resolves names from a map.
type MapResolver map[string]float64

// Resolve looks name up in the map.
func (m MapResolver) Resolve(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

// Evaluator evaluates formulas against a catalog in a working unit.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	catalog *Catalog
	unit    domain.Unit
}

// NewEvaluator creates an evaluator. Bare numbers are in unit.
func NewEvaluator(catalog *Catalog, unit domain.Unit) *Evaluator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Evaluator{catalog: catalog, unit: unit}
}

// Unit returns the working unit.
func (e *Evaluator) Unit() domain.Unit {
	return e.unit
}

// Catalog returns the function catalog.
func (e *Evaluator) Catalog() *Catalog {
	return e.catalog
}

// Eval evaluates formula. Failures are *domain.EvalError.
func (e *Evaluator) Eval(formula string, r Resolver) (float64, error) {
	root, err := parse(formula)
	if err != nil {
		return 0, err
	}
	ev := &evaluation{Evaluator: e, formula: formula, resolver: r}
	return ev.eval(root)
}

// Check parses formula and verifies every call names a catalog function
// with an acceptable argument count. Variables are not resolved.
func (e *Evaluator) Check(formula string) error {
	root, err := parse(formula)
	if err != nil {
		return err
	}
	var check func(n node) error
	check = func(n node) error {
		switch n := n.(type) {
		case *callNode:
			if err := e.checkCall(formula, n); err != nil {
				return err
			}
			for _, a := range n.args {
				if err := check(a); err != nil {
					return err
				}
			}
		case *unaryNode:
			return check(n.x)
		case *binaryNode:
			if err := check(n.x); err != nil {
				return err
			}
			return check(n.y)
		case *ternaryNode:
			for _, c := range []node{n.cond, n.then, n.els} {
				if err := check(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return check(root)
}

// Identifiers returns the variable names referenced by formula, in order of
// first appearance. Catalog constants and function names are excluded.
func (e *Evaluator) Identifiers(formula string) ([]string, error) {
	root, err := parse(formula)
	if err != nil {
		return nil, err
	}
	var names []string
	seen := make(map[string]bool)
	var walk func(n node)
	walk = func(n node) {
		switch n := n.(type) {
		case *identNode:
			if _, isConst := e.catalog.Const(n.name); isConst || seen[n.name] {
				return
			}
			seen[n.name] = true
			names = append(names, n.name)
		case *callNode:
			for _, a := range n.args {
				walk(a)
			}
		case *unaryNode:
			walk(n.x)
		case *binaryNode:
			walk(n.x)
			walk(n.y)
		case *ternaryNode:
			walk(n.cond)
			walk(n.then)
			walk(n.els)
		}
	}
	walk(root)
	return names, nil
}

// RenameIdentifiers rewrites every identifier token of formula through fn,
// preserving all other text including whitespace.
func RenameIdentifiers(formula string, fn func(name string) string) (string, error) {
	toks, err := lex(formula)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	last := 0
	for _, t := range toks {
		if t.kind != tokIdent {
			continue
		}
		b.WriteString(formula[last:t.pos])
		b.WriteString(fn(t.text))
		last = t.end
	}
	b.WriteString(formula[last:])
	return b.String(), nil
}

// evaluation is the state of one Eval call.
type evaluation struct {
	*Evaluator
	formula  string
	resolver Resolver
}

func (ev *evaluation) fail(kind domain.EvalErrorKind, pos int, format string, args ...any) *domain.EvalError {
	return &domain.EvalError{Kind: kind, Formula: ev.formula, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// finite rejects NaN and infinities produced at n.
func (ev *evaluation) finite(v float64, n node) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ev.fail(domain.EvalDomain, n.position(), "result is not a finite number")
	}
	return v, nil
}

func (ev *evaluation) eval(n node) (float64, error) {
	switch n := n.(type) {
	case *numberNode:
		v := n.value
		if n.unit != "" {
			v = unitSuffixes[n.unit].Convert(v, ev.unit)
		}
		return ev.finite(v, n)
	case *identNode:
		return ev.ident(n)
	case *unaryNode:
		x, err := ev.eval(n.x)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case tokMinus:
			return -x, nil
		case tokNot:
			return boolValue(x == 0), nil
		default:
			return x, nil
		}
	case *binaryNode:
		return ev.binary(n)
	case *ternaryNode:
		cond, err := ev.eval(n.cond)
		if err != nil {
			return 0, err
		}
		if cond != 0 {
			return ev.eval(n.then)
		}
		return ev.eval(n.els)
	case *callNode:
		return ev.call(n)
	default:
		return 0, ev.fail(domain.EvalSyntax, 0, "unsupported expression")
	}
}

func (ev *evaluation) ident(n *identNode) (float64, error) {
	if v, ok := ev.catalog.Const(n.name); ok {
		return v, nil
	}
	if ev.resolver != nil {
		if v, ok := ev.resolver.Resolve(n.name); ok {
			return ev.finite(v, n)
		}
	}
	if _, ok := ev.catalog.Func(n.name); ok {
		return 0, ev.fail(domain.EvalType, n.pos, "function %s used as a value", n.name)
	}
	return 0, ev.fail(domain.EvalUnknownIdentifier, n.pos, "%s is not defined", n.name)
}

func (ev *evaluation) binary(n *binaryNode) (float64, error) {
	x, err := ev.eval(n.x)
	if err != nil {
		return 0, err
	}
	// Logical operators short-circuit.
	switch n.op {
	case tokAnd:
		if x == 0 {
			return 0, nil
		}
		y, err := ev.eval(n.y)
		return boolValue(y != 0), err
	case tokOr:
		if x != 0 {
			return 1, nil
		}
		y, err := ev.eval(n.y)
		return boolValue(y != 0), err
	}
	y, err := ev.eval(n.y)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case tokPlus:
		return ev.finite(x+y, n)
	case tokMinus:
		return ev.finite(x-y, n)
	case tokStar:
		return ev.finite(x*y, n)
	case tokSlash:
		if y == 0 {
			return 0, ev.fail(domain.EvalDomain, n.pos, "division by zero")
		}
		return ev.finite(x/y, n)
	case tokPercent:
		if y == 0 {
			return 0, ev.fail(domain.EvalDomain, n.pos, "modulo by zero")
		}
		return ev.finite(math.Mod(x, y), n)
	case tokCaret:
		return ev.finite(math.Pow(x, y), n)
	case tokEq:
		return boolValue(x == y), nil
	case tokNeq:
		return boolValue(x != y), nil
	case tokLt:
		return boolValue(x < y), nil
	case tokLe:
		return boolValue(x <= y), nil
	case tokGt:
		return boolValue(x > y), nil
	case tokGe:
		return boolValue(x >= y), nil
	default:
		return 0, ev.fail(domain.EvalSyntax, n.pos, "unsupported operator %s", n.op)
	}
}

func (e *Evaluator) checkCall(formula string, n *callNode) error {
	f, ok := e.catalog.Func(n.name)
	if !ok {
		kind, msg := domain.EvalUnknownIdentifier, "unknown function "+n.name
		if _, isConst := e.catalog.Const(n.name); isConst {
			kind, msg = domain.EvalType, n.name+" is not a function"
		}
		return &domain.EvalError{Kind: kind, Formula: formula, Pos: n.pos, Msg: msg}
	}
	if len(n.args) < f.MinArgs || (f.MaxArgs != Variadic && len(n.args) > f.MaxArgs) {
		return &domain.EvalError{
			Kind:    domain.EvalType,
			Formula: formula,
			Pos:     n.pos,
			Msg:     fmt.Sprintf("%s takes %s, got %d", n.name, arity(f), len(n.args)),
		}
	}
	return nil
}

func (ev *evaluation) call(n *callNode) (float64, error) {
	f, ok := ev.catalog.Func(n.name)
	if !ok && ev.resolver != nil {
		if _, isVar := ev.resolver.Resolve(n.name); isVar {
			return 0, ev.fail(domain.EvalType, n.pos, "%s is not a function", n.name)
		}
	}
	if err := ev.checkCall(ev.formula, n); err != nil {
		return 0, err
	}
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := ev.eval(a)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	v, err := f.Call(args)
	if err != nil {
		return 0, ev.fail(domain.EvalDomain, n.pos, "%s: %v", n.name, err)
	}
	return ev.finite(v, n)
}

func arity(f Func) string {
	switch {
	case f.MaxArgs == Variadic:
		return fmt.Sprintf("at least %d argument(s)", f.MinArgs)
	case f.MinArgs == f.MaxArgs:
		return fmt.Sprintf("%d argument(s)", f.MinArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", f.MinArgs, f.MaxArgs)
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
