package geometry

import "math"

// Point is a position (or offset) in the drafting plane.
type Point struct {
	X, Y float64
}

// Pt creates a point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul scales p by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the distance from the origin.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the distance between p and q.
func (p Point) Distance(q Point) float64 {
	return q.Sub(p).Length()
}

// Normalize returns the unit vector in the direction of p.
// The zero vector is returned unchanged.
func (p Point) Normalize() Point {
	l := p.Length()
	if l == 0 {
		return p
	}
	return p.Mul(1 / l)
}

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Polar returns the point at the given distance from p along angle degrees.
func (p Point) Polar(angle, distance float64) Point {
	rad := Radians(angle)
	return Point{X: p.X + distance*math.Cos(rad), Y: p.Y + distance*math.Sin(rad)}
}

// AngleTo returns the direction from p to q in degrees, in [0, 360).
func (p Point) AngleTo(q Point) float64 {
	d := q.Sub(p)
	return NormalizeDegrees(Degrees(math.Atan2(d.Y, d.X)))
}

// Approx reports whether p and q are within eps of each other.
func (p Point) Approx(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod can round -tiny up to exactly 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}
