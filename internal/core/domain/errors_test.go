package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrDuplicateID", ErrDuplicateID},
		{"ErrDuplicateName", ErrDuplicateName},
		{"ErrDuplicateLabel", ErrDuplicateLabel},
		{"ErrNoCommonPoint", ErrNoCommonPoint},
		{"ErrDependencyViolation", ErrDependencyViolation},
		{"ErrRecomputeFailed", ErrRecomputeFailed},
		{"ErrUnresolvedBreak", ErrUnresolvedBreak},
		{"ErrNothingToUndo", ErrNothingToUndo},
		{"ErrNothingToRedo", ErrNothingToRedo},
		{"ErrUnitMismatch", ErrUnitMismatch},
		{"ErrNoDrafting", ErrNoDrafting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_AreDistinct ensures no two sentinels match each other.
func TestErrors_AreDistinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrUnsupportedType,
		ErrTypeMismatch, ErrDuplicateID, ErrDuplicateName, ErrDuplicateLabel,
		ErrNoIntersection, ErrDegenerate, ErrOutOfRange, ErrNoCommonPoint,
		ErrDependencyViolation, ErrRecomputeFailed, ErrUnresolvedBreak,
		ErrNothingToUndo, ErrNothingToRedo, ErrUnitMismatch, ErrNoDrafting,
		ErrSyntax, ErrUnknownIdentifier, ErrDomain, ErrType,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestEvalError_MatchesItsKind(t *testing.T) {
	tests := []struct {
		kind EvalErrorKind
		want error
	}{
		{EvalSyntax, ErrSyntax},
		{EvalUnknownIdentifier, ErrUnknownIdentifier},
		{EvalDomain, ErrDomain},
		{EvalType, ErrType},
	}
	sentinels := []error{ErrSyntax, ErrUnknownIdentifier, ErrDomain, ErrType}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := &EvalError{Kind: tt.kind, Formula: "a+", Pos: 2, Msg: "boom"}
			for _, s := range sentinels {
				assert.Equal(t, s == tt.want, errors.Is(err, s), "matching %v", s)
			}
		})
	}
}

func TestEvalError_Error(t *testing.T) {
	err := &EvalError{Kind: EvalDomain, Formula: "10/0", Pos: 2, Msg: "division by zero"}

	assert.Equal(t, `domain error at 2 in "10/0": division by zero`, err.Error())
	assert.Equal(t, "unknown error", EvalErrorKind(0).String())
}

func TestOperationError_Error(t *testing.T) {
	cause := &EvalError{Kind: EvalDomain, Formula: "10/0", Pos: 2, Msg: "division by zero"}

	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{
			name: "field",
			err:  &OperationError{OpID: 3, Kind: KindEndLine, Field: "length", Formula: "10/0", Cause: cause},
			want: `operation 3 (end_line) field length "10/0": ` + cause.Error(),
		},
		{
			name: "no field",
			err:  &OperationError{OpID: 5, Kind: KindLineIntersect, Cause: ErrNoIntersection},
			want: "operation 5 (line_intersect): " + ErrNoIntersection.Error(),
		},
		{
			name: "namespace",
			err:  &OperationError{Field: "#ease", Cause: cause},
			want: "namespace #ease: " + cause.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := fmt.Errorf("recompute: %w", &OperationError{OpID: 3, Cause: ErrDegenerate})

	var opErr *OperationError
	assert.ErrorAs(t, err, &opErr)
	assert.Equal(t, ID(3), opErr.OpID)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestParseError(t *testing.T) {
	err := &ParseError{Line: 4, Column: 7, Msg: "unexpected element", Err: ErrInvalidInput}

	assert.Equal(t, "parse error at line 4, column 7: unexpected element", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ClassUnknown},
		{"parse", &ParseError{Msg: "x", Err: ErrInvalidInput}, ClassParse},
		{"evaluator", &EvalError{Kind: EvalSyntax}, ClassEvaluator},
		{"wrapped evaluator", &OperationError{OpID: 1, Cause: &EvalError{Kind: EvalDomain}}, ClassEvaluator},
		{"no intersection", ErrNoIntersection, ClassGeometry},
		{"degenerate", fmt.Errorf("op: %w", ErrDegenerate), ClassGeometry},
		{"out of range", ErrOutOfRange, ClassGeometry},
		{"no common point", ErrNoCommonPoint, ClassGeometry},
		{"dependency", ErrDependencyViolation, ClassDependency},
		{"duplicate id", ErrDuplicateID, ClassConsistency},
		{"not found", ErrNotFound, ClassConsistency},
		{"duplicate label", ErrDuplicateLabel, ClassConsistency},
		{"missing reference", &OperationError{OpID: 4, Kind: KindLine, Cause: fmt.Errorf("%w: entity 2", ErrNotFound)}, ClassReference},
		{"wrong reference type", &OperationError{OpID: 4, Kind: KindLine, Cause: ErrTypeMismatch}, ClassReference},
		{"label taken during recompute", &OperationError{OpID: 4, Kind: KindBasePoint, Cause: ErrDuplicateLabel}, ClassReference},
		{"unit mismatch", ErrUnitMismatch, ClassConfiguration},
		{"other", errors.New("disk on fire"), ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorClass_Recoverable(t *testing.T) {
	assert.True(t, ClassEvaluator.Recoverable())
	assert.True(t, ClassGeometry.Recoverable())
	assert.True(t, ClassReference.Recoverable())
	assert.False(t, ClassParse.Recoverable())
	assert.False(t, ClassDependency.Recoverable())
	assert.False(t, ClassConsistency.Recoverable())
}
