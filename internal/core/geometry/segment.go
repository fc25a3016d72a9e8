package geometry

import "math"

// Segment is the straight line from A to B.
type Segment struct {
	A, B Point
}

// Seg creates a segment.
func Seg(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// Angle returns the direction from A to B in degrees.
func (s Segment) Angle() float64 {
	return s.A.AngleTo(s.B)
}

// Direction returns the unit vector from A to B.
func (s Segment) Direction() Point {
	return s.B.Sub(s.A).Normalize()
}

// Degenerate reports whether A and B coincide.
func (s Segment) Degenerate() bool {
	return s.Length() < Epsilon
}

// PointAt returns the point at the given distance from A towards B.
// Distances outside [0, Length] extend the line past its endpoints.
func (s Segment) PointAt(distance float64) (Point, error) {
	if s.Degenerate() {
		return Point{}, ErrDegenerate
	}
	return s.A.Add(s.Direction().Mul(distance)), nil
}

// Foot returns the orthogonal projection of p onto the infinite line through s.
func (s Segment) Foot(p Point) (Point, error) {
	if s.Degenerate() {
		return Point{}, ErrDegenerate
	}
	d := s.B.Sub(s.A)
	t := p.Sub(s.A).Dot(d) / d.Dot(d)
	return s.A.Lerp(s.B, t), nil
}

// IntersectLines intersects the infinite lines through s and o.
func IntersectLines(s, o Segment) (Point, error) {
	if s.Degenerate() || o.Degenerate() {
		return Point{}, ErrDegenerate
	}
	r := s.B.Sub(s.A)
	q := o.B.Sub(o.A)
	denom := r.Cross(q)
	if math.Abs(denom) < Epsilon*r.Length()*q.Length() {
		return Point{}, ErrNoIntersection
	}
	t := o.A.Sub(s.A).Cross(q) / denom
	return s.A.Add(r.Mul(t)), nil
}

// Axis returns a unit-length segment starting at base along angle degrees.
func Axis(base Point, angle float64) Segment {
	return Segment{A: base, B: base.Polar(angle, 1)}
}

// Bisector returns the unit direction bisecting the angle first-vertex-third.
func Bisector(first, vertex, third Point) (Point, error) {
	u := first.Sub(vertex).Normalize()
	v := third.Sub(vertex).Normalize()
	if u.Length() < Epsilon || v.Length() < Epsilon {
		return Point{}, ErrDegenerate
	}
	d := u.Add(v)
	if d.Length() < Epsilon {
		// Straight angle: the bisector is perpendicular to both rays.
		return Point{X: -u.Y, Y: u.X}, nil
	}
	return d.Normalize(), nil
}
