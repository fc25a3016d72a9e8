package geometry

import "errors"

var (
	// ErrNoIntersection indicates the solve has no real solution.
	ErrNoIntersection = errors.New("no intersection")

	// ErrDegenerate indicates degenerate input such as coincident points
	// or a zero-length direction.
	ErrDegenerate = errors.New("degenerate geometry")

	// ErrOutOfRange indicates a length outside of the curve it cuts.
	ErrOutOfRange = errors.New("length out of range")
)

// Epsilon is the tolerance used for coincidence and parallelism tests.
const Epsilon = 1e-9
