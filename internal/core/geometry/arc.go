package geometry

import "math"

// Arc is a circular arc running counter-clockwise from angle F1 to F2 (degrees).
// Equal start and end angles describe a full circle.
type Arc struct {
	Center Point
	Radius float64
	F1, F2 float64
}

// NewArc validates and creates an arc.
func NewArc(center Point, radius, f1, f2 float64) (Arc, error) {
	if radius <= Epsilon || !finite(radius) {
		return Arc{}, ErrDegenerate
	}
	return Arc{Center: center, Radius: radius, F1: NormalizeDegrees(f1), F2: NormalizeDegrees(f2)}, nil
}

// Span returns the swept angle in degrees, in (0, 360].
func (a Arc) Span() float64 {
	span := NormalizeDegrees(a.F2 - a.F1)
	if span < Epsilon {
		return 360
	}
	return span
}

// Length returns the arc length.
func (a Arc) Length() float64 {
	return a.Radius * Radians(a.Span())
}

// PointAt returns the point on the circle at angle degrees.
func (a Arc) PointAt(angle float64) Point {
	return a.Center.Polar(angle, a.Radius)
}

// Start returns the first endpoint.
func (a Arc) Start() Point {
	return a.PointAt(a.F1)
}

// End returns the second endpoint.
func (a Arc) End() Point {
	return a.PointAt(a.F2)
}

// Contains reports whether angle degrees lies within the arc's sweep.
func (a Arc) Contains(angle float64) bool {
	off := NormalizeDegrees(angle - a.F1)
	return off <= a.Span()+1e-7
}

// CutAt splits the arc at the given length from its start.
// Negative lengths are measured back from the end.
func (a Arc) CutAt(length float64) (Point, Arc, Arc, error) {
	total := a.Length()
	if length < 0 {
		length += total
	}
	if length <= Epsilon || length >= total-Epsilon {
		return Point{}, Arc{}, Arc{}, ErrOutOfRange
	}
	mid := NormalizeDegrees(a.F1 + Degrees(length/a.Radius))
	first := Arc{Center: a.Center, Radius: a.Radius, F1: a.F1, F2: mid}
	second := Arc{Center: a.Center, Radius: a.Radius, F1: mid, F2: a.F2}
	return a.PointAt(mid), first, second, nil
}

// Flatten approximates the arc by a polyline with at most maxStep degrees per step.
func (a Arc) Flatten(maxStep float64) []Point {
	n := int(math.Ceil(a.Span() / maxStep))
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, a.PointAt(a.F1+a.Span()*float64(i)/float64(n)))
	}
	return pts
}
