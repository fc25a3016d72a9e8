package domain

import (
	"fmt"
	"strings"
)

// VariableKind tags where a namespace value comes from.
type VariableKind string

// Variable kinds.
const (
	VarMeasurement        VariableKind = "measurement"
	VarIncrement          VariableKind = "increment"
	VarLineLength         VariableKind = "line_length"
	VarLineAngle          VariableKind = "line_angle"
	VarArcLength          VariableKind = "arc_length"
	VarArcRadius          VariableKind = "arc_radius"
	VarArcAngle           VariableKind = "arc_angle"
	VarCurveLength        VariableKind = "curve_length"
	VarCurveAngle         VariableKind = "curve_angle"
	VarCurveControlLength VariableKind = "curve_control_length"
)

// Variable is a named numeric value available to formulas.
type Variable struct {
	// Name is case sensitive and unique across all sources.
	Name string

	// Kind records the source of the value.
	Kind VariableKind

	// Value is in the drafting unit for lengths and degrees for angles.
	Value float64

	// Source is the entity that exposes this value; 0 for measurements and increments.
	Source ID
}

// Increment is a user-defined variable evaluated before any operation.
type Increment struct {
	// Name starts with '#'.
	Name string

	// Formula may reference measurements and earlier increments.
	Formula string

	// Description is free text shown to the user.
	Description string
}

// Prefixes of variable names derived from geometric entities.
const (
	PrefixLine          = "Line"
	PrefixAngleLine     = "AngleLine"
	PrefixArc           = "Arc"
	PrefixRadiusArc     = "RadiusArc"
	PrefixAngle1Arc     = "Angle1Arc"
	PrefixAngle2Arc     = "Angle2Arc"
	PrefixSpl           = "Spl"
	PrefixAngle1Spl     = "Angle1Spl"
	PrefixAngle2Spl     = "Angle2Spl"
	PrefixC1LengthSpl   = "C1LengthSpl"
	PrefixC2LengthSpl   = "C2LengthSpl"
	PrefixSplPath       = "SplPath"
	PrefixAngle1SplPath = "Angle1SplPath"
	PrefixAngle2SplPath = "Angle2SplPath"
)

var derivedPrefixes = map[string]bool{
	PrefixLine: true, PrefixAngleLine: true,
	PrefixArc: true, PrefixRadiusArc: true, PrefixAngle1Arc: true, PrefixAngle2Arc: true,
	PrefixSpl: true, PrefixAngle1Spl: true, PrefixAngle2Spl: true,
	PrefixC1LengthSpl: true, PrefixC2LengthSpl: true,
	PrefixSplPath: true, PrefixAngle1SplPath: true, PrefixAngle2SplPath: true,
}

// DerivedName joins a prefix and label parts into a variable name.
func DerivedName(prefix string, parts ...string) string {
	return prefix + "_" + strings.Join(parts, "_")
}

// IsDerivedName reports whether name uses a geometric prefix.
func IsDerivedName(name string) bool {
	prefix, _, ok := strings.Cut(name, "_")
	return ok && derivedPrefixes[prefix]
}

// RenameInDerivedName replaces the label parts equal to from with to.
// Names without a geometric prefix are returned unchanged.
func RenameInDerivedName(name, from, to string) string {
	if !IsDerivedName(name) {
		return name
	}
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == from {
			parts[i] = to
		}
	}
	return strings.Join(parts, "_")
}

// ValidateMeasurementName rejects names that collide with derived or increment names.
func ValidateMeasurementName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty measurement name", ErrInvalidInput)
	case strings.HasPrefix(name, "#"):
		return fmt.Errorf("%w: measurement %q may not start with '#'", ErrInvalidInput, name)
	case IsDerivedName(name):
		return fmt.Errorf("%w: measurement %q uses a reserved prefix", ErrInvalidInput, name)
	}
	return nil
}

// ValidateIncrementName checks an increment name.
func ValidateIncrementName(name string) error {
	if len(name) < 2 || !strings.HasPrefix(name, "#") {
		return fmt.Errorf("%w: increment %q must start with '#'", ErrInvalidInput, name)
	}
	return nil
}
