package domain

import "fmt"

// Unit is a working length unit.
type Unit string

// Supported units.
const (
	UnitMillimeter Unit = "mm"
	UnitCentimeter Unit = "cm"
	UnitMeter      Unit = "m"
	UnitInch       Unit = "inch"
	UnitPixel      Unit = "px"
)

// pixelsPerInch is the fixed resolution used for pixel conversions.
const pixelsPerInch = 96.0

// millimeters is the size of one unit in millimeters.
var millimeters = map[Unit]float64{
	UnitMillimeter: 1,
	UnitCentimeter: 10,
	UnitMeter:      1000,
	UnitInch:       25.4,
	UnitPixel:      25.4 / pixelsPerInch,
}

// IsValid returns true if the unit is recognised.
func (u Unit) IsValid() bool {
	_, ok := millimeters[u]
	return ok
}

// String returns the string representation.
func (u Unit) String() string {
	return string(u)
}

// Convert converts v expressed in u into the target unit.
func (u Unit) Convert(v float64, to Unit) float64 {
	if u == to {
		return v
	}
	return v * millimeters[u] / millimeters[to]
}

// ParseUnit parses a unit name, accepting "in" as an alias of "inch".
func ParseUnit(s string) (Unit, error) {
	if s == "in" {
		return UnitInch, nil
	}
	u := Unit(s)
	if !u.IsValid() {
		return "", fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, s)
	}
	return u, nil
}

// Units returns every supported unit.
func Units() []Unit {
	return []Unit{UnitMillimeter, UnitCentimeter, UnitMeter, UnitInch, UnitPixel}
}
