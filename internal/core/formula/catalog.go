package formula

import (
	"errors"
	"maps"
	"math"
	"slices"
)

// Variadic marks a function accepting any number of arguments above MinArgs.
const Variadic = -1

// Func is a catalog function.
type Func struct {
	// Name is the identifier used in formulas.
	Name string

	// MinArgs and MaxArgs bound the argument count. MaxArgs may be Variadic.
	MinArgs int
	MaxArgs int

	// Call computes the result. A returned error is reported as a domain error.
	Call func(args []float64) (float64, error)
}

// Catalog is an immutable set of functions and constants.
type Catalog struct {
	funcs  map[string]Func
	consts map[string]float64
}

// NewCatalog builds a catalog. The arguments are copied.
func NewCatalog(funcs []Func, consts map[string]float64) *Catalog {
	c := &Catalog{
		funcs:  make(map[string]Func, len(funcs)),
		consts: maps.Clone(consts),
	}
	if c.consts == nil {
		c.consts = map[string]float64{}
	}
	for _, f := range funcs {
		c.funcs[f.Name] = f
	}
	return c
}

// Func returns the named function.
func (c *Catalog) Func(name string) (Func, bool) {
	f, ok := c.funcs[name]
	return f, ok
}

// Const returns the named constant.
func (c *Catalog) Const(name string) (float64, bool) {
	v, ok := c.consts[name]
	return v, ok
}

// IsReserved reports whether name is a function or constant of the catalog.
func (c *Catalog) IsReserved(name string) bool {
	_, isFunc := c.funcs[name]
	_, isConst := c.consts[name]
	return isFunc || isConst
}

// Functions returns the function names in sorted order.
func (c *Catalog) Functions() []string {
	return slices.Sorted(maps.Keys(c.funcs))
}

// Constants returns the constant names in sorted order.
func (c *Catalog) Constants() []string {
	return slices.Sorted(maps.Keys(c.consts))
}

var (
	errOutsideDomain = errors.New("argument outside the function's domain")
	errModByZero     = errors.New("modulo by zero")
)

func unary(name string, fn func(float64) float64) Func {
	return Func{Name: name, MinArgs: 1, MaxArgs: 1, Call: func(a []float64) (float64, error) {
		return fn(a[0]), nil
	}}
}

// guarded returns a unary function that rejects arguments failing ok.
func guarded(name string, ok func(float64) bool, fn func(float64) float64) Func {
	return Func{Name: name, MinArgs: 1, MaxArgs: 1, Call: func(a []float64) (float64, error) {
		if !ok(a[0]) {
			return 0, errOutsideDomain
		}
		return fn(a[0]), nil
	}}
}

func variadic(name string, fn func([]float64) float64) Func {
	return Func{Name: name, MinArgs: 1, MaxArgs: Variadic, Call: func(a []float64) (float64, error) {
		return fn(a), nil
	}}
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

func unitInterval(x float64) bool { return x >= -1 && x <= 1 }
func positive(x float64) bool     { return x > 0 }

func sum(a []float64) float64 {
	s := 0.0
	for _, v := range a {
		s += v
	}
	return s
}

// DefaultCatalog returns the drafting function set. Trigonometric functions
// take and return degrees.
func DefaultCatalog() *Catalog {
	funcs := []Func{
		unary("sin", func(x float64) float64 { return math.Sin(toRad(x)) }),
		unary("cos", func(x float64) float64 { return math.Cos(toRad(x)) }),
		unary("tan", func(x float64) float64 { return math.Tan(toRad(x)) }),
		guarded("asin", unitInterval, func(x float64) float64 { return toDeg(math.Asin(x)) }),
		guarded("acos", unitInterval, func(x float64) float64 { return toDeg(math.Acos(x)) }),
		unary("atan", func(x float64) float64 { return toDeg(math.Atan(x)) }),
		unary("sinh", math.Sinh),
		unary("cosh", math.Cosh),
		unary("tanh", math.Tanh),
		unary("asinh", math.Asinh),
		guarded("acosh", func(x float64) bool { return x >= 1 }, math.Acosh),
		guarded("atanh", func(x float64) bool { return x > -1 && x < 1 }, math.Atanh),
		guarded("log2", positive, math.Log2),
		guarded("log10", positive, math.Log10),
		guarded("log", positive, math.Log10),
		guarded("ln", positive, math.Log),
		unary("exp", math.Exp),
		guarded("sqrt", func(x float64) bool { return x >= 0 }, math.Sqrt),
		unary("sign", func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			default:
				return 0
			}
		}),
		unary("rint", math.RoundToEven),
		unary("abs", math.Abs),
		unary("radTodeg", toDeg),
		unary("degTorad", toRad),
		{Name: "fmod", MinArgs: 2, MaxArgs: 2, Call: func(a []float64) (float64, error) {
			if a[1] == 0 {
				return 0, errModByZero
			}
			return math.Mod(a[0], a[1]), nil
		}},
		variadic("min", func(a []float64) float64 { return slices.Min(a) }),
		variadic("max", func(a []float64) float64 { return slices.Max(a) }),
		variadic("sum", sum),
		variadic("avg", func(a []float64) float64 { return sum(a) / float64(len(a)) }),
	}
	return NewCatalog(funcs, map[string]float64{
		"pi": math.Pi,
		"e":  math.E,
	})
}
