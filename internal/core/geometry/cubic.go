package geometry

import "math"

// Cubic is a cubic Bézier curve. P0 and P3 are the endpoints,
// P1 and P2 the control points.
type Cubic struct {
	P0, P1, P2, P3 Point
}

// CubicFromAngles builds the curve from its endpoints and the polar
// offsets of its control points: P1 lies at (angle1, length1) from p0 and
// P2 at (angle2, length2) from p3.
func CubicFromAngles(p0, p3 Point, angle1, length1, angle2, length2 float64) (Cubic, error) {
	if p0.Distance(p3) < Epsilon {
		return Cubic{}, ErrDegenerate
	}
	if length1 < 0 || length2 < 0 {
		return Cubic{}, ErrDegenerate
	}
	return Cubic{
		P0: p0,
		P1: p0.Polar(angle1, length1),
		P2: p3.Polar(angle2, length2),
		P3: p3,
	}, nil
}

// Eval evaluates the curve at parameter t in [0, 1].
func (c Cubic) Eval(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c.P0.X + b*c.P1.X + d*c.P2.X + e*c.P3.X,
		Y: a*c.P0.Y + b*c.P1.Y + d*c.P2.Y + e*c.P3.Y,
	}
}

// Deriv evaluates the first derivative at t.
func (c Cubic) Deriv(t float64) Point {
	mt := 1 - t
	d0 := c.P1.Sub(c.P0)
	d1 := c.P2.Sub(c.P1)
	d2 := c.P3.Sub(c.P2)
	return d0.Mul(3 * mt * mt).Add(d1.Mul(6 * mt * t)).Add(d2.Mul(3 * t * t))
}

// Split divides the curve at t using de Casteljau's algorithm.
func (c Cubic) Split(t float64) (Cubic, Cubic) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	mid := p012.Lerp(p123, t)
	return Cubic{P0: c.P0, P1: p01, P2: p012, P3: mid},
		Cubic{P0: mid, P1: p123, P2: p23, P3: c.P3}
}

// Angle1 is the direction of the first control arm in degrees.
func (c Cubic) Angle1() float64 {
	return c.P0.AngleTo(c.P1)
}

// Angle2 is the direction of the second control arm in degrees.
func (c Cubic) Angle2() float64 {
	return c.P3.AngleTo(c.P2)
}

// Length1 is the length of the first control arm.
func (c Cubic) Length1() float64 {
	return c.P0.Distance(c.P1)
}

// Length2 is the length of the second control arm.
func (c Cubic) Length2() float64 {
	return c.P3.Distance(c.P2)
}

// 5-point Gauss-Legendre nodes and weights on [-1, 1].
var (
	glNodes   = [5]float64{0, -0.5384693101056831, 0.5384693101056831, -0.9061798459386640, 0.9061798459386640}
	glWeights = [5]float64{0.5688888888888889, 0.4786286704993665, 0.4786286704993665, 0.2369268850561891, 0.2369268850561891}
)

// lengthSubdivisions is the number of quadrature intervals over [0, 1].
const lengthSubdivisions = 32

// Length returns the arc length of the curve.
func (c Cubic) Length() float64 {
	return c.LengthTo(1)
}

// LengthTo returns the arc length from the start to parameter t.
func (c Cubic) LengthTo(t float64) float64 {
	if t <= 0 {
		return 0
	}
	t = math.Min(t, 1)
	n := int(math.Ceil(lengthSubdivisions * t))
	h := t / float64(n)
	var total float64
	for i := 0; i < n; i++ {
		a := float64(i) * h
		mid := a + h/2
		for k, x := range glNodes {
			total += glWeights[k] * c.Deriv(mid+x*h/2).Length()
		}
	}
	return total * h / 2
}

// ParamAt returns the parameter whose arc length from the start is length.
func (c Cubic) ParamAt(length float64) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < 60 && hi-lo > 1e-12; i++ {
		mid := (lo + hi) / 2
		if c.LengthTo(mid) < length {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// CutAt splits the curve at the given arc length from its start.
// Negative lengths are measured back from the end.
func (c Cubic) CutAt(length float64) (Point, Cubic, Cubic, error) {
	total := c.Length()
	if length < 0 {
		length += total
	}
	if length <= Epsilon || length >= total-Epsilon {
		return Point{}, Cubic{}, Cubic{}, ErrOutOfRange
	}
	first, second := c.Split(c.ParamAt(length))
	return first.P3, first, second, nil
}

// Flatten approximates the curve by n+1 evenly parameterised points.
func (c Cubic) Flatten(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, c.Eval(float64(i)/float64(n)))
	}
	return pts
}

// powerBasis returns the coefficients of c as a*t^3 + b*t^2 + d*t + e.
func (c Cubic) powerBasis() (a, b, d, e Point) {
	a = c.P3.Sub(c.P0).Add(c.P1.Sub(c.P2).Mul(3))
	b = c.P0.Add(c.P2).Mul(3).Sub(c.P1.Mul(6))
	d = c.P1.Sub(c.P0).Mul(3)
	e = c.P0
	return a, b, d, e
}
