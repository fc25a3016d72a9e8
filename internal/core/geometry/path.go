package geometry

// Path is a chain of cubic segments where each segment starts at the end
// of the previous one.
type Path struct {
	Segments []Cubic
}

// Length returns the total arc length.
func (p Path) Length() float64 {
	var total float64
	for _, s := range p.Segments {
		total += s.Length()
	}
	return total
}

// Start returns the first point of the path.
func (p Path) Start() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[0].P0
}

// End returns the last point of the path.
func (p Path) End() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[len(p.Segments)-1].P3
}

// CutAt splits the path at the given arc length from its start.
// Negative lengths are measured back from the end. The returned index is
// the segment that was divided.
func (p Path) CutAt(length float64) (Point, Path, Path, int, error) {
	total := p.Length()
	if length < 0 {
		length += total
	}
	if length <= Epsilon || length >= total-Epsilon {
		return Point{}, Path{}, Path{}, 0, ErrOutOfRange
	}

	walked := 0.0
	for i, seg := range p.Segments {
		l := seg.Length()
		if walked+l < length-Epsilon {
			walked += l
			continue
		}

		first := Path{Segments: append([]Cubic(nil), p.Segments[:i]...)}
		second := Path{}
		local := length - walked
		switch {
		case local >= l-Epsilon:
			first.Segments = append(first.Segments, seg)
			second.Segments = append(second.Segments, p.Segments[i+1:]...)
		default:
			left, right := seg.Split(seg.ParamAt(local))
			first.Segments = append(first.Segments, left)
			second.Segments = append(append(second.Segments, right), p.Segments[i+1:]...)
		}
		return first.End(), first, second, i, nil
	}
	return Point{}, Path{}, Path{}, 0, ErrOutOfRange
}
