package geometry

import "math"

// Polynomial root solvers used by the curve intersections.

// SolveQuadratic returns the real roots of ax^2 + bx + c = 0 in ascending order.
// A vanishing a degrades to the linear equation.
func SolveQuadratic(a, b, c float64) []float64 {
	sc0 := c / a
	sc1 := b / a
	if !finite(sc0) || !finite(sc1) {
		root := -c / b
		if finite(root) {
			return []float64{root}
		}
		return nil
	}

	disc := sc1*sc1 - 4*sc0
	switch {
	case disc < 0:
		return nil
	case disc == 0:
		return []float64{-0.5 * sc1}
	}

	// Stable form avoiding cancellation between -b and sqrt(disc).
	r1 := -0.5 * (sc1 + math.Copysign(math.Sqrt(disc), sc1))
	r2 := sc0 / r1
	if !finite(r2) {
		return []float64{r1}
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return []float64{r1, r2}
}

// SolveCubic returns the real roots of ax^3 + bx^2 + cx + d = 0, unordered.
// Follows Blinn's "How to Solve a Cubic Equation".
func SolveCubic(a, b, c, d float64) []float64 {
	const third = 1.0 / 3.0
	inv := 1 / a
	c2 := b * third * inv
	c1 := c * third * inv
	c0 := d * inv
	if !finite(c2) || !finite(c1) || !finite(c0) {
		return SolveQuadratic(b, c, d)
	}

	d0 := -c2*c2 + c1
	d1 := -c1*c2 + c0
	d2 := c2*c0 - c1*c1
	disc := 4*d0*d2 - d1*d1
	de := -2*c2*d0 + d1

	switch {
	case disc < 0:
		sq := math.Sqrt(-0.25 * disc)
		r := -0.5 * de
		return []float64{math.Cbrt(r+sq) + math.Cbrt(r-sq) - c2}
	case disc == 0:
		t := math.Copysign(math.Sqrt(-d0), de)
		return []float64{t - c2, -2*t - c2}
	}

	th := math.Atan2(math.Sqrt(disc), -de) * third
	s, co := math.Sincos(th)
	ss3 := s * math.Sqrt(3)
	t := 2 * math.Sqrt(-d0)
	return []float64{
		t*co - c2,
		t*0.5*(-co+ss3) - c2,
		t*0.5*(-co-ss3) - c2,
	}
}

// unitRoots keeps roots in [0, 1], snapping values within rounding of the bounds.
func unitRoots(roots []float64) []float64 {
	const eps = 1e-9
	out := roots[:0:0]
	for _, r := range roots {
		if r < -eps || r > 1+eps {
			continue
		}
		out = append(out, math.Min(1, math.Max(0, r)))
	}
	return out
}

func finite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
