package geometry

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func assertPoint(t *testing.T, want, got Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-7, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, 1e-7, "y of %v", got)
}

// straight returns a cubic running from a to b along a straight line.
func straight(a, b Point) Cubic {
	return Cubic{P0: a, P1: a.Lerp(b, 1.0/3), P2: a.Lerp(b, 2.0/3), P3: b}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{-90, 270},
		{720, 0},
		{361, 1},
		{-1e-20, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeDegrees(tt.in), delta, "NormalizeDegrees(%v)", tt.in)
	}
}

func TestPoint_PolarAndAngle(t *testing.T) {
	p := Pt(1, 1).Polar(90, 2)

	assertPoint(t, Pt(1, 3), p)
	assert.InDelta(t, 90, Pt(1, 1).AngleTo(p), delta)
	assert.InDelta(t, 270, p.AngleTo(Pt(1, 1)), delta)
	assert.InDelta(t, 5, Pt(0, 0).Distance(Pt(3, 4)), delta)
	assert.Equal(t, Point{}, Point{}.Normalize())
}

func TestSegment(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(3, 4))

	assert.InDelta(t, 5, s.Length(), delta)
	assert.InDelta(t, math.Atan2(4, 3)*180/math.Pi, s.Angle(), delta)

	p, err := s.PointAt(10)
	require.NoError(t, err)
	assertPoint(t, Pt(6, 8), p)

	foot, err := Seg(Pt(0, 0), Pt(4, 0)).Foot(Pt(1, 3))
	require.NoError(t, err)
	assertPoint(t, Pt(1, 0), foot)

	_, err = Seg(Pt(1, 1), Pt(1, 1)).PointAt(1)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestIntersectLines(t *testing.T) {
	p, err := IntersectLines(Seg(Pt(0, 0), Pt(2, 2)), Seg(Pt(0, 2), Pt(2, 0)))
	require.NoError(t, err)
	assertPoint(t, Pt(1, 1), p)

	_, err = IntersectLines(Seg(Pt(0, 0), Pt(1, 0)), Seg(Pt(0, 1), Pt(1, 1)))
	assert.ErrorIs(t, err, ErrNoIntersection)

	_, err = IntersectLines(Seg(Pt(0, 0), Pt(0, 0)), Seg(Pt(0, 1), Pt(1, 1)))
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestBisector(t *testing.T) {
	d, err := Bisector(Pt(1, 0), Pt(0, 0), Pt(0, 1))
	require.NoError(t, err)
	assertPoint(t, Pt(math.Sqrt2/2, math.Sqrt2/2), d)

	d, err = Bisector(Pt(1, 0), Pt(0, 0), Pt(-1, 0))
	require.NoError(t, err)
	assertPoint(t, Pt(0, 1), d)

	_, err = Bisector(Pt(0, 0), Pt(0, 0), Pt(0, 1))
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestArc(t *testing.T) {
	a, err := NewArc(Pt(0, 0), 5, 0, 90)
	require.NoError(t, err)

	assert.InDelta(t, 90, a.Span(), delta)
	assert.InDelta(t, 5*math.Pi/2, a.Length(), delta)
	assertPoint(t, Pt(0, 5), a.End())
	assert.True(t, a.Contains(45))
	assert.False(t, a.Contains(180))

	p, first, second, err := a.CutAt(a.Length() / 2)
	require.NoError(t, err)
	assertPoint(t, Pt(0, 0).Polar(45, 5), p)
	assert.InDelta(t, a.Length()/2, first.Length(), 1e-7)
	assert.InDelta(t, a.Length()/2, second.Length(), 1e-7)

	_, _, _, err = a.CutAt(a.Length() + 1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	full, err := NewArc(Pt(0, 0), 1, 30, 390)
	require.NoError(t, err)
	assert.InDelta(t, 360, full.Span(), delta)

	_, err = NewArc(Pt(0, 0), 0, 0, 90)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestCubic(t *testing.T) {
	c := straight(Pt(0, 0), Pt(3, 0))

	assert.InDelta(t, 3, c.Length(), 1e-9)
	assert.InDelta(t, 0, c.Angle1(), delta)
	assert.InDelta(t, 180, c.Angle2(), delta)
	assert.InDelta(t, 1, c.Length1(), delta)

	p, first, second, err := c.CutAt(1)
	require.NoError(t, err)
	assertPoint(t, Pt(1, 0), p)
	assert.InDelta(t, 1, first.Length(), 1e-7)
	assert.InDelta(t, 2, second.Length(), 1e-7)

	p, _, _, err = c.CutAt(-1)
	require.NoError(t, err)
	assertPoint(t, Pt(2, 0), p)

	_, _, _, err = c.CutAt(3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCubicFromAngles(t *testing.T) {
	c, err := CubicFromAngles(Pt(0, 0), Pt(10, 0), 45, 2, 135, 2)
	require.NoError(t, err)

	assertPoint(t, Pt(0, 0).Polar(45, 2), c.P1)
	assert.InDelta(t, 45, c.Angle1(), 1e-9)
	assert.InDelta(t, 135, c.Angle2(), 1e-9)
	assert.Greater(t, c.Length(), 10.0)

	_, err = CubicFromAngles(Pt(1, 1), Pt(1, 1), 0, 1, 0, 1)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestPath_CutAt(t *testing.T) {
	p := Path{Segments: []Cubic{
		straight(Pt(0, 0), Pt(3, 0)),
		straight(Pt(3, 0), Pt(3, 4)),
	}}
	assert.InDelta(t, 7, p.Length(), 1e-9)
	assert.Equal(t, Pt(3, 4), p.End())

	pt, first, second, idx, err := p.CutAt(5)
	require.NoError(t, err)
	assertPoint(t, Pt(3, 2), pt)
	assert.Equal(t, 1, idx)
	assert.Len(t, first.Segments, 2)
	assert.Len(t, second.Segments, 1)

	pt, first, second, idx, err = p.CutAt(3)
	require.NoError(t, err)
	assertPoint(t, Pt(3, 0), pt)
	assert.Equal(t, 0, idx)
	assert.Len(t, first.Segments, 1)
	assert.Len(t, second.Segments, 1)

	pt, _, _, _, err = p.CutAt(-1)
	require.NoError(t, err)
	assertPoint(t, Pt(3, 3), pt)

	_, _, _, _, err = p.CutAt(0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestIntersectAxis(t *testing.T) {
	p, err := IntersectAxisCubic(Pt(1.5, 5), 270, straight(Pt(0, 0), Pt(3, 0)))
	require.NoError(t, err)
	assertPoint(t, Pt(1.5, 0), p)

	_, err = IntersectAxisCubic(Pt(5, 5), 90, straight(Pt(0, 0), Pt(3, 0)))
	assert.ErrorIs(t, err, ErrNoIntersection)

	path := Path{Segments: []Cubic{straight(Pt(0, 0), Pt(3, 0)), straight(Pt(3, 0), Pt(3, 4))}}
	p, err = IntersectAxisPath(Pt(0, 2), 0, path)
	require.NoError(t, err)
	assertPoint(t, Pt(3, 2), p)

	arc, err := NewArc(Pt(0, 0), 5, 0, 90)
	require.NoError(t, err)
	p, err = IntersectAxisArc(Pt(0, 0), 45, arc)
	require.NoError(t, err)
	assertPoint(t, Pt(0, 0).Polar(45, 5), p)

	_, err = IntersectAxisArc(Pt(10, 10), 0, arc)
	assert.ErrorIs(t, err, ErrNoIntersection)
}

func TestSolvers(t *testing.T) {
	assert.Equal(t, []float64{-2, 2}, SolveQuadratic(1, 0, -4))
	assert.Nil(t, SolveQuadratic(1, 0, 4))
	assert.Equal(t, []float64{2}, SolveQuadratic(0, 2, -4))

	roots := SolveCubic(1, -6, 11, -6)
	sort.Float64s(roots)
	require.Len(t, roots, 3)
	for i, want := range []float64{1, 2, 3} {
		assert.InDelta(t, want, roots[i], 1e-9)
	}

	roots = SolveCubic(0, 1, 0, -9)
	sort.Float64s(roots)
	require.Len(t, roots, 2)
	assert.InDelta(t, -3, roots[0], 1e-9)
	assert.InDelta(t, 3, roots[1], 1e-9)

	assert.Equal(t, []float64{0, 1, 0.5}, unitRoots([]float64{-1e-12, 1 + 1e-12, 0.5, 2, -1}))
}

func TestOutline(t *testing.T) {
	var o Outline
	o = o.AppendPoint(Pt(0, 0))
	o = o.AppendPoint(Pt(0, 0))
	o = o.AppendCubic(straight(Pt(0, 0), Pt(2, 0)), false)
	o = o.AppendCubic(straight(Pt(2, 2), Pt(2, 0)), true)
	o = o.AppendPoint(Pt(0, 2))
	o = o.AppendPoint(Pt(0, 0))
	o = o.Closed()

	assert.Equal(t, Pt(0, 0), o[0])
	assert.NotEqual(t, Pt(0, 0), o[len(o)-1])
	assert.InDelta(t, 4, o.Area(), 1e-9)
	assert.InDelta(t, 8, o.Perimeter(), 1e-9)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.35, Round(2.34567, 2))
	assert.Equal(t, -1.0, Round(-0.99999, 4))
	assert.Equal(t, 3.0, Round(3, 0))
}
