package services

import (
	"fmt"
	"strconv"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/formula"
)

// entityLabel returns the derived label of a curve or line entity.
func entityLabel(prefix string, parts ...string) string {
	return domain.DerivedName(prefix, parts...)
}

// lineVariables exposes a line's length and angle.
func lineVariables(e domain.Entity, a, b string) []domain.Variable {
	g := e.Geometry.(domain.LineGeom)
	return []domain.Variable{
		{Name: domain.DerivedName(domain.PrefixLine, a, b), Kind: domain.VarLineLength, Value: g.Segment.Length(), Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixAngleLine, a, b), Kind: domain.VarLineAngle, Value: g.Segment.Angle(), Source: e.ID},
	}
}

// arcVariables exposes an arc's length, radius and end angles. Arcs are
// named by their center label and their own id, since several arcs may
// share a center.
func arcVariables(e domain.Entity, center string) []domain.Variable {
	g := e.Geometry.(domain.ArcGeom)
	id := strconv.FormatUint(uint64(e.ID), 10)
	return []domain.Variable{
		{Name: domain.DerivedName(domain.PrefixArc, center, id), Kind: domain.VarArcLength, Value: g.Arc.Length(), Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixRadiusArc, center, id), Kind: domain.VarArcRadius, Value: g.Arc.Radius, Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixAngle1Arc, center, id), Kind: domain.VarArcAngle, Value: g.Arc.F1, Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixAngle2Arc, center, id), Kind: domain.VarArcAngle, Value: g.Arc.F2, Source: e.ID},
	}
}

// splineVariables exposes a spline's length, control angles and control lengths.
func splineVariables(e domain.Entity, a, b string) []domain.Variable {
	c := e.Geometry.(domain.SplineGeom).Curve
	return []domain.Variable{
		{Name: domain.DerivedName(domain.PrefixSpl, a, b), Kind: domain.VarCurveLength, Value: c.Length(), Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixAngle1Spl, a, b), Kind: domain.VarCurveAngle, Value: c.Angle1(), Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixAngle2Spl, a, b), Kind: domain.VarCurveAngle, Value: c.Angle2(), Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixC1LengthSpl, a, b), Kind: domain.VarCurveControlLength, Value: c.Length1(), Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixC2LengthSpl, a, b), Kind: domain.VarCurveControlLength, Value: c.Length2(), Source: e.ID},
	}
}

// splinePathVariables exposes a spline path's length and end angles.
func splinePathVariables(e domain.Entity, a, b string) []domain.Variable {
	p := e.Geometry.(domain.SplinePathGeom).Path
	first := p.Segments[0]
	last := p.Segments[len(p.Segments)-1]
	return []domain.Variable{
		{Name: domain.DerivedName(domain.PrefixSplPath, a, b), Kind: domain.VarCurveLength, Value: p.Length(), Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixAngle1SplPath, a, b), Kind: domain.VarCurveAngle, Value: first.Angle1(), Source: e.ID},
		{Name: domain.DerivedName(domain.PrefixAngle2SplPath, a, b), Kind: domain.VarCurveAngle, Value: last.Angle2(), Source: e.ID},
	}
}

// ValidateMeasurements checks measurement names against the reserved
// namespaces: increments, derived prefixes and catalog names.
func ValidateMeasurements(m *domain.Measurements, catalog *formula.Catalog) error {
	for _, name := range m.Names() {
		if err := domain.ValidateMeasurementName(name); err != nil {
			return err
		}
		if catalog != nil && catalog.IsReserved(name) {
			return fmt.Errorf("%w: measurement %q shadows a formula function or constant", domain.ErrInvalidInput, name)
		}
	}
	return nil
}
