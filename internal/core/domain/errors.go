package domain

import (
	"errors"
	"fmt"

	"github.com/seamwork/drafter/internal/core/geometry"
)

// Domain errors represent drafting logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown operation or entity kind.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrTypeMismatch indicates an entity exists under a different type.
	ErrTypeMismatch = errors.New("type mismatch")

	// Store consistency errors. These are invariant violations.

	// ErrDuplicateID indicates an id is assigned twice within a drafting.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDuplicateName indicates a variable name is defined by more than one source.
	ErrDuplicateName = errors.New("duplicate variable name")

	// ErrDuplicateLabel indicates a point label is already in use.
	ErrDuplicateLabel = errors.New("duplicate label")

	// Geometric construction errors. These are recoverable and scoped to one operation.

	// ErrNoIntersection indicates a geometric solve has no real solution.
	ErrNoIntersection = geometry.ErrNoIntersection

	// ErrDegenerate indicates degenerate input such as coincident points.
	ErrDegenerate = geometry.ErrDegenerate

	// ErrOutOfRange indicates a cut length outside of the curve.
	ErrOutOfRange = geometry.ErrOutOfRange

	// ErrNoCommonPoint indicates two details share no boundary point.
	ErrNoCommonPoint = errors.New("details share no common point")

	// Edit errors.

	// ErrDependencyViolation indicates an edit would break a later reference.
	ErrDependencyViolation = errors.New("dependency violation")

	// ErrRecomputeFailed indicates recomputation stopped at a failing operation.
	ErrRecomputeFailed = errors.New("recomputation failed")

	// ErrUnresolvedBreak indicates a broken edit awaits revert or acceptance.
	ErrUnresolvedBreak = errors.New("previous edit left the drafting broken and is unresolved")

	// ErrNothingToUndo indicates the history has no edit to revert.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the history has no edit to re-apply.
	ErrNothingToRedo = errors.New("nothing to redo")

	// Configuration errors.

	// ErrUnitMismatch indicates the measurement unit differs from the drafting unit.
	ErrUnitMismatch = errors.New("measurement unit does not match drafting unit")

	// ErrNoDrafting indicates no drafting is open.
	ErrNoDrafting = errors.New("no drafting loaded")
)

// Evaluator error classes. An *EvalError matches exactly one of these with errors.Is.
var (
	// ErrSyntax indicates a malformed expression.
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownIdentifier indicates a formula references an undefined name.
	ErrUnknownIdentifier = errors.New("unknown identifier")

	// ErrDomain indicates a math domain violation (division by zero, sqrt of a negative).
	ErrDomain = errors.New("domain error")

	// ErrType indicates a name used as the wrong kind of value or a bad argument count.
	ErrType = errors.New("type error")
)

// EvalErrorKind classifies formula evaluation failures.
type EvalErrorKind int

// Evaluation failure kinds.
const (
	EvalSyntax EvalErrorKind = iota + 1
	EvalUnknownIdentifier
	EvalDomain
	EvalType
)

// String returns the string representation.
func (k EvalErrorKind) String() string {
	switch k {
	case EvalSyntax:
		return "syntax error"
	case EvalUnknownIdentifier:
		return "unknown identifier"
	case EvalDomain:
		return "domain error"
	case EvalType:
		return "type error"
	default:
		return "unknown error"
	}
}

// EvalError is a classified formula failure.
type EvalError struct {
	// Kind classifies the failure.
	Kind EvalErrorKind

	// Formula is the text being evaluated.
	Formula string

	// Pos is the byte offset in Formula where the failure was detected.
	Pos int

	// Msg is a human-readable cause.
	Msg string
}

// Error implements error.
func (e *EvalError) Error() string {
	return fmt.Sprintf("%s at %d in %q: %s", e.Kind, e.Pos, e.Formula, e.Msg)
}

// Is reports whether target is the sentinel for this error's kind.
func (e *EvalError) Is(target error) bool {
	switch e.Kind {
	case EvalSyntax:
		return target == ErrSyntax
	case EvalUnknownIdentifier:
		return target == ErrUnknownIdentifier
	case EvalDomain:
		return target == ErrDomain
	case EvalType:
		return target == ErrType
	default:
		return false
	}
}

// OperationError reports the operation where recomputation stopped.
type OperationError struct {
	// OpID identifies the failing operation. It is 0 when a measurement
	// or increment failed before any operation ran.
	OpID ID

	// Index is the position of the operation in the drafting.
	Index int

	// Kind is the failing operation's kind.
	Kind OpKind

	// Field names the formula field that failed, if any.
	Field string

	// Formula is the text of the failing formula, if any.
	Formula string

	// Cause is the underlying evaluator, geometry or reference error.
	Cause error
}

// Error implements error.
func (e *OperationError) Error() string {
	if e.OpID == 0 {
		return fmt.Sprintf("namespace %s: %v", e.Field, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("operation %d (%s) field %s %q: %v", e.OpID, e.Kind, e.Field, e.Formula, e.Cause)
	}
	return fmt.Sprintf("operation %d (%s): %v", e.OpID, e.Kind, e.Cause)
}

// Unwrap returns the cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// ParseError is a fatal load failure with its position in the source.
type ParseError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Unwrap returns the underlying error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrorClass is the taxonomy an error belongs to.
type ErrorClass string

// Error classes.
const (
	ClassParse         ErrorClass = "parse"
	ClassEvaluator     ErrorClass = "evaluator"
	ClassGeometry      ErrorClass = "geometry"
	ClassReference     ErrorClass = "reference"
	ClassDependency    ErrorClass = "dependency"
	ClassConsistency   ErrorClass = "consistency"
	ClassConfiguration ErrorClass = "configuration"
	ClassUnknown       ErrorClass = "unknown"
)

// Recoverable reports whether errors of this class are scoped to one operation.
func (c ErrorClass) Recoverable() bool {
	return c == ClassEvaluator || c == ClassGeometry || c == ClassReference
}

// Classify maps an error onto the drafting error taxonomy.
func Classify(err error) ErrorClass {
	var parseErr *ParseError
	var evalErr *EvalError
	var opErr *OperationError
	switch {
	case err == nil:
		return ClassUnknown
	case errors.As(err, &parseErr):
		return ClassParse
	case errors.As(err, &evalErr):
		return ClassEvaluator
	case errors.Is(err, ErrNoIntersection), errors.Is(err, ErrDegenerate),
		errors.Is(err, ErrOutOfRange), errors.Is(err, ErrNoCommonPoint):
		return ClassGeometry
	case errors.As(err, &opErr) && (errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTypeMismatch) || errors.Is(err, ErrDuplicateLabel)):
		// A bad reference met during recompute is scoped to its operation.
		return ClassReference
	case errors.Is(err, ErrDependencyViolation):
		return ClassDependency
	case errors.Is(err, ErrDuplicateID), errors.Is(err, ErrDuplicateName), errors.Is(err, ErrDuplicateLabel),
		errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrTypeMismatch),
		errors.Is(err, ErrNotFound):
		return ClassConsistency
	case errors.Is(err, ErrUnitMismatch):
		return ClassConfiguration
	default:
		return ClassUnknown
	}
}
