// Package formula implements the closed algebraic expression language used
// by drafting operations.
//
// A formula is a single expression over numbers (optionally unit-suffixed),
// variables, catalog constants and catalog function calls. Bare numbers are
// in the evaluator's working unit; angles are degrees. Evaluation has no side
// effects: the same formula against the same resolver always yields the same
// value or the same classified *domain.EvalError.
//
// The function set is supplied by an immutable Catalog passed to
// NewEvaluator, so callers can restrict or replace it.
package formula
