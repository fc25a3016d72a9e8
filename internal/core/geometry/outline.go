package geometry

import "math"

// Flattening resolution for outlines.
const (
	arcStepDegrees  = 5
	cubicFlattening = 16
)

// Outline is a closed polygon approximating a detail's boundary.
type Outline []Point

// Area returns the signed area (positive for counter-clockwise outlines).
func (o Outline) Area() float64 {
	var sum float64
	for i := range o {
		j := (i + 1) % len(o)
		sum += o[i].Cross(o[j])
	}
	return sum / 2
}

// Perimeter returns the closed polygon's perimeter.
func (o Outline) Perimeter() float64 {
	var sum float64
	for i := range o {
		sum += o[i].Distance(o[(i+1)%len(o)])
	}
	return sum
}

// AppendPoint adds p unless it repeats the last point.
func (o Outline) AppendPoint(p Point) Outline {
	if len(o) > 0 && o[len(o)-1].Approx(p, 1e-7) {
		return o
	}
	return append(o, p)
}

// AppendArc adds the flattened arc, reversed if requested.
func (o Outline) AppendArc(a Arc, reverse bool) Outline {
	return o.appendAll(a.Flatten(arcStepDegrees), reverse)
}

// AppendCubic adds the flattened curve, reversed if requested.
func (o Outline) AppendCubic(c Cubic, reverse bool) Outline {
	return o.appendAll(c.Flatten(cubicFlattening), reverse)
}

// AppendPath adds every flattened segment of the path, reversed if requested.
func (o Outline) AppendPath(p Path, reverse bool) Outline {
	var pts []Point
	for _, s := range p.Segments {
		pts = append(pts, s.Flatten(cubicFlattening)...)
	}
	return o.appendAll(pts, reverse)
}

// Closed drops a final point that repeats the first.
func (o Outline) Closed() Outline {
	if len(o) > 1 && o[0].Approx(o[len(o)-1], 1e-7) {
		return o[:len(o)-1]
	}
	return o
}

func (o Outline) appendAll(pts []Point, reverse bool) Outline {
	if reverse {
		for i := len(pts) - 1; i >= 0; i-- {
			o = o.AppendPoint(pts[i])
		}
		return o
	}
	for _, p := range pts {
		o = o.AppendPoint(p)
	}
	return o
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Round(v*f) / f
}
