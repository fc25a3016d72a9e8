package geometry

import "math"

// IntersectAxisCubic intersects the infinite line through base at angle
// degrees with c, returning the intersection closest to base.
func IntersectAxisCubic(base Point, angle float64, c Cubic) (Point, error) {
	pts := axisCubicPoints(base, angle, c)
	return closest(base, pts)
}

// IntersectAxisPath intersects the axis with every segment of the path and
// returns the intersection closest to base.
func IntersectAxisPath(base Point, angle float64, p Path) (Point, error) {
	var pts []Point
	for _, s := range p.Segments {
		pts = append(pts, axisCubicPoints(base, angle, s)...)
	}
	return closest(base, pts)
}

// IntersectAxisArc intersects the axis with the arc and returns the
// intersection closest to base.
func IntersectAxisArc(base Point, angle float64, a Arc) (Point, error) {
	rad := Radians(angle)
	dir := Point{X: math.Cos(rad), Y: math.Sin(rad)}
	f := base.Sub(a.Center)
	roots := SolveQuadratic(dir.Dot(dir), 2*f.Dot(dir), f.Dot(f)-a.Radius*a.Radius)
	var pts []Point
	for _, t := range roots {
		p := base.Add(dir.Mul(t))
		if a.Contains(a.Center.AngleTo(p)) {
			pts = append(pts, p)
		}
	}
	return closest(base, pts)
}

func axisCubicPoints(base Point, angle float64, c Cubic) []Point {
	rad := Radians(angle)
	dir := Point{X: math.Cos(rad), Y: math.Sin(rad)}
	a, b, d, e := c.powerBasis()
	// Signed distance of B(t) from the axis as a cubic polynomial in t.
	roots := SolveCubic(dir.Cross(a), dir.Cross(b), dir.Cross(d), dir.Cross(e.Sub(base)))
	var pts []Point
	for _, t := range unitRoots(roots) {
		pts = append(pts, c.Eval(t))
	}
	return pts
}

func closest(base Point, pts []Point) (Point, error) {
	if len(pts) == 0 {
		return Point{}, ErrNoIntersection
	}
	best := pts[0]
	for _, p := range pts[1:] {
		if base.Distance(p) < base.Distance(best) {
			best = p
		}
	}
	return best, nil
}
