package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/formula"
	"github.com/seamwork/drafter/internal/core/geometry"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

// formulaError records the formula field that failed to evaluate.
type formulaError struct {
	field string
	expr  string
	err   error
}

func (e *formulaError) Error() string {
	return fmt.Sprintf("field %s: %v", e.field, e.err)
}

func (e *formulaError) Unwrap() error {
	return e.err
}

// builder executes one operation against the stores. It reads inputs from
// the stores and collects outputs; the engine inserts them.
type builder struct {
	entities driven.EntityStore
	vars     driven.VariableStore
	eval     *formula.Evaluator
	op       *domain.Operation

	out  []domain.Entity
	defs []domain.Variable
}

// construct dispatches on the operation kind. Every Params variant must
// have a case here.
func (b *builder) construct() error {
	switch p := b.op.Params.(type) {
	case domain.BasePoint:
		return b.basePoint(p)
	case domain.EndLine:
		return b.endLine(p)
	case domain.AlongLine:
		return b.alongLine(p)
	case domain.Bisector:
		return b.bisector(p)
	case domain.Normal:
		return b.normal(p)
	case domain.Height:
		return b.height(p)
	case domain.Line:
		return b.line(p)
	case domain.LineIntersect:
		return b.lineIntersect(p)
	case domain.LineIntersectAxis:
		return b.lineIntersectAxis(p)
	case domain.CurveIntersectAxis:
		return b.curveIntersectAxis(p)
	case domain.Arc:
		return b.arc(p)
	case domain.Spline:
		return b.spline(p)
	case domain.SplinePath:
		return b.splinePath(p)
	case domain.CutArc:
		return b.cutArc(p)
	case domain.CutSpline:
		return b.cutSpline(p)
	case domain.CutSplinePath:
		return b.cutSplinePath(p)
	case domain.Detail:
		return b.detail(p)
	case domain.UnionDetails:
		return b.unionDetails(p)
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnsupportedType, p)
	}
}

func (b *builder) value(field, expr string) (float64, error) {
	v, err := b.eval.Eval(expr, b.vars)
	if err != nil {
		return 0, &formulaError{field: field, expr: expr, err: err}
	}
	return v, nil
}

// optional evaluates expr, treating an empty formula as 0.
func (b *builder) optional(field, expr string) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, nil
	}
	return b.value(field, expr)
}

// values evaluates several fields given as field/expr pairs.
func (b *builder) values(pairs ...string) ([]float64, error) {
	out := make([]float64, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		v, err := b.value(pairs[i], pairs[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *builder) point(id domain.ID) (geometry.Point, string, error) {
	e, err := b.entities.Get(id, domain.EntityPoint)
	if err != nil {
		return geometry.Point{}, "", err
	}
	p, _ := e.Point()
	return p, e.Label, nil
}

func (b *builder) points(ids ...domain.ID) ([]geometry.Point, []string, error) {
	pts := make([]geometry.Point, len(ids))
	labels := make([]string, len(ids))
	for i, id := range ids {
		p, label, err := b.point(id)
		if err != nil {
			return nil, nil, err
		}
		pts[i], labels[i] = p, label
	}
	return pts, labels, nil
}

func (b *builder) label(id domain.ID) (string, error) {
	e, err := b.entities.Lookup(id)
	if err != nil {
		return "", err
	}
	return e.Label, nil
}

func (b *builder) emit(e domain.Entity, vars ...domain.Variable) {
	e.Source = b.op.ID
	b.out = append(b.out, e)
	b.defs = append(b.defs, vars...)
}

// emitPoint emits output slot idx as a labelled point.
func (b *builder) emitPoint(idx int, label string, p geometry.Point) domain.ID {
	id := b.op.Outputs[idx]
	b.emit(domain.Entity{ID: id, Label: label, Type: domain.EntityPoint, Geometry: domain.PointGeom{Point: p}})
	return id
}

// emitLine emits output slot idx as the line first-second.
func (b *builder) emitLine(idx int, first, second domain.ID, a, c geometry.Point, la, lc string) {
	e := domain.Entity{
		ID:       b.op.Outputs[idx],
		Label:    entityLabel(domain.PrefixLine, la, lc),
		Type:     domain.EntityLine,
		Geometry: domain.LineGeom{First: first, Second: second, Segment: geometry.Seg(a, c)},
	}
	b.emit(e, lineVariables(e, la, lc)...)
}

// emitPointWithLine emits a new point and the line drawn to it from base.
func (b *builder) emitPointWithLine(label string, p geometry.Point, base domain.ID, bp geometry.Point, bl string) {
	id := b.emitPoint(0, label, p)
	b.emitLine(1, base, id, bp, p, bl, label)
}

func (b *builder) emitArc(idx int, center string, centerID domain.ID, a geometry.Arc) {
	e := domain.Entity{
		ID:       b.op.Outputs[idx],
		Type:     domain.EntityArc,
		Geometry: domain.ArcGeom{Center: centerID, Arc: a},
	}
	e.Label = entityLabel(domain.PrefixArc, center, e.ID.String())
	b.emit(e, arcVariables(e, center)...)
}

func (b *builder) emitSpline(idx int, first, last domain.ID, c geometry.Cubic, lf, ll string) {
	e := domain.Entity{
		ID:       b.op.Outputs[idx],
		Label:    entityLabel(domain.PrefixSpl, lf, ll),
		Type:     domain.EntitySpline,
		Geometry: domain.SplineGeom{First: first, Last: last, Curve: c},
	}
	b.emit(e, splineVariables(e, lf, ll)...)
}

func (b *builder) emitSplinePath(idx int, ids []domain.ID, p geometry.Path, lf, ll string) {
	e := domain.Entity{
		ID:       b.op.Outputs[idx],
		Label:    entityLabel(domain.PrefixSplPath, lf, ll),
		Type:     domain.EntitySplinePath,
		Geometry: domain.SplinePathGeom{Points: ids, Path: p},
	}
	b.emit(e, splinePathVariables(e, lf, ll)...)
}

func (b *builder) basePoint(p domain.BasePoint) error {
	v, err := b.values("x", p.X, "y", p.Y)
	if err != nil {
		return err
	}
	b.emitPoint(0, p.Name, geometry.Pt(v[0], v[1]))
	return nil
}

func (b *builder) endLine(p domain.EndLine) error {
	base, bl, err := b.point(p.Base)
	if err != nil {
		return err
	}
	v, err := b.values("length", p.Length, "angle", p.Angle)
	if err != nil {
		return err
	}
	inc, err := b.optional("angle_increment", p.AngleIncrement)
	if err != nil {
		return err
	}
	b.emitPointWithLine(p.Name, base.Polar(v[1]+inc, v[0]), p.Base, base, bl)
	return nil
}

func (b *builder) alongLine(p domain.AlongLine) error {
	pts, labels, err := b.points(p.First, p.Second)
	if err != nil {
		return err
	}
	length, err := b.value("length", p.Length)
	if err != nil {
		return err
	}
	// Lengths outside the segment extend the line past its ends.
	pt, err := geometry.Seg(pts[0], pts[1]).PointAt(length)
	if err != nil {
		return err
	}
	b.emitPointWithLine(p.Name, pt, p.First, pts[0], labels[0])
	return nil
}

func (b *builder) bisector(p domain.Bisector) error {
	pts, labels, err := b.points(p.First, p.Second, p.Third)
	if err != nil {
		return err
	}
	length, err := b.value("length", p.Length)
	if err != nil {
		return err
	}
	dir, err := geometry.Bisector(pts[1], pts[0], pts[2])
	if err != nil {
		return err
	}
	b.emitPointWithLine(p.Name, pts[0].Add(dir.Mul(length)), p.First, pts[0], labels[0])
	return nil
}

func (b *builder) normal(p domain.Normal) error {
	pts, labels, err := b.points(p.First, p.Second)
	if err != nil {
		return err
	}
	length, err := b.value("length", p.Length)
	if err != nil {
		return err
	}
	inc, err := b.optional("angle_increment", p.AngleIncrement)
	if err != nil {
		return err
	}
	seg := geometry.Seg(pts[0], pts[1])
	if seg.Degenerate() {
		return geometry.ErrDegenerate
	}
	b.emitPointWithLine(p.Name, pts[0].Polar(seg.Angle()+90+inc, length), p.First, pts[0], labels[0])
	return nil
}

func (b *builder) height(p domain.Height) error {
	pts, labels, err := b.points(p.Base, p.First, p.Second)
	if err != nil {
		return err
	}
	foot, err := geometry.Seg(pts[1], pts[2]).Foot(pts[0])
	if err != nil {
		return err
	}
	b.emitPointWithLine(p.Name, foot, p.Base, pts[0], labels[0])
	return nil
}

func (b *builder) line(p domain.Line) error {
	if p.First == p.Second {
		return fmt.Errorf("%w: line from point %d to itself", geometry.ErrDegenerate, p.First)
	}
	pts, labels, err := b.points(p.First, p.Second)
	if err != nil {
		return err
	}
	b.emitLine(0, p.First, p.Second, pts[0], pts[1], labels[0], labels[1])
	return nil
}

func (b *builder) lineIntersect(p domain.LineIntersect) error {
	pts, _, err := b.points(p.P1, p.P2, p.P3, p.P4)
	if err != nil {
		return err
	}
	pt, err := geometry.IntersectLines(geometry.Seg(pts[0], pts[1]), geometry.Seg(pts[2], pts[3]))
	if err != nil {
		return err
	}
	b.emitPoint(0, p.Name, pt)
	return nil
}

func (b *builder) lineIntersectAxis(p domain.LineIntersectAxis) error {
	pts, labels, err := b.points(p.Base, p.First, p.Second)
	if err != nil {
		return err
	}
	angle, err := b.value("angle", p.Angle)
	if err != nil {
		return err
	}
	pt, err := geometry.IntersectLines(geometry.Axis(pts[0], angle), geometry.Seg(pts[1], pts[2]))
	if err != nil {
		return err
	}
	b.emitPointWithLine(p.Name, pt, p.Base, pts[0], labels[0])
	return nil
}

func (b *builder) curveIntersectAxis(p domain.CurveIntersectAxis) error {
	base, bl, err := b.point(p.Base)
	if err != nil {
		return err
	}
	angle, err := b.value("angle", p.Angle)
	if err != nil {
		return err
	}
	curve, err := b.entities.Lookup(p.Curve)
	if err != nil {
		return err
	}
	var pt geometry.Point
	switch g := curve.Geometry.(type) {
	case domain.ArcGeom:
		pt, err = geometry.IntersectAxisArc(base, angle, g.Arc)
	case domain.SplineGeom:
		pt, err = geometry.IntersectAxisCubic(base, angle, g.Curve)
	case domain.SplinePathGeom:
		pt, err = geometry.IntersectAxisPath(base, angle, g.Path)
	default:
		return fmt.Errorf("%w: entity %d is a %s, not a curve", domain.ErrTypeMismatch, p.Curve, curve.Type)
	}
	if err != nil {
		return err
	}
	b.emitPointWithLine(p.Name, pt, p.Base, base, bl)
	return nil
}

func (b *builder) arc(p domain.Arc) error {
	center, cl, err := b.point(p.Center)
	if err != nil {
		return err
	}
	v, err := b.values("radius", p.Radius, "f1", p.F1, "f2", p.F2)
	if err != nil {
		return err
	}
	a, err := geometry.NewArc(center, v[0], v[1], v[2])
	if err != nil {
		return err
	}
	b.emitArc(0, cl, p.Center, a)
	return nil
}

func (b *builder) spline(p domain.Spline) error {
	pts, labels, err := b.points(p.P1, p.P4)
	if err != nil {
		return err
	}
	v, err := b.values("angle1", p.Angle1, "length1", p.Length1, "angle2", p.Angle2, "length2", p.Length2)
	if err != nil {
		return err
	}
	c, err := geometry.CubicFromAngles(pts[0], pts[1], v[0], v[1], v[2], v[3])
	if err != nil {
		return err
	}
	b.emitSpline(0, p.P1, p.P4, c, labels[0], labels[1])
	return nil
}

func (b *builder) splinePath(p domain.SplinePath) error {
	if len(p.Nodes) < 2 {
		return fmt.Errorf("%w: spline path needs at least two nodes", domain.ErrInvalidInput)
	}
	ids := p.Refs()
	pts, labels, err := b.points(ids...)
	if err != nil {
		return err
	}
	var path geometry.Path
	for i := 0; i+1 < len(p.Nodes); i++ {
		from, to := p.Nodes[i], p.Nodes[i+1]
		prefix := fmt.Sprintf("node%d.", i)
		next := fmt.Sprintf("node%d.", i+1)
		v, err := b.values(
			prefix+"angle2", from.Angle2, prefix+"length2", from.Length2,
			next+"angle1", to.Angle1, next+"length1", to.Length1,
		)
		if err != nil {
			return err
		}
		seg, err := geometry.CubicFromAngles(pts[i], pts[i+1], v[0], v[1], v[2], v[3])
		if err != nil {
			return err
		}
		path.Segments = append(path.Segments, seg)
	}
	b.emitSplinePath(0, slices.Clone(ids), path, labels[0], labels[len(labels)-1])
	return nil
}

func (b *builder) cutArc(p domain.CutArc) error {
	e, err := b.entities.Get(p.Arc, domain.EntityArc)
	if err != nil {
		return err
	}
	g := e.Geometry.(domain.ArcGeom)
	cl, err := b.label(g.Center)
	if err != nil {
		return err
	}
	length, err := b.value("length", p.Length)
	if err != nil {
		return err
	}
	pt, first, second, err := g.Arc.CutAt(length)
	if err != nil {
		return err
	}
	b.emitPoint(0, p.Name, pt)
	b.emitArc(1, cl, g.Center, first)
	b.emitArc(2, cl, g.Center, second)
	return nil
}

func (b *builder) cutSpline(p domain.CutSpline) error {
	e, err := b.entities.Get(p.Spline, domain.EntitySpline)
	if err != nil {
		return err
	}
	g := e.Geometry.(domain.SplineGeom)
	lf, err := b.label(g.First)
	if err != nil {
		return err
	}
	ll, err := b.label(g.Last)
	if err != nil {
		return err
	}
	length, err := b.value("length", p.Length)
	if err != nil {
		return err
	}
	pt, first, second, err := g.Curve.CutAt(length)
	if err != nil {
		return err
	}
	cut := b.emitPoint(0, p.Name, pt)
	b.emitSpline(1, g.First, cut, first, lf, p.Name)
	b.emitSpline(2, cut, g.Last, second, p.Name, ll)
	return nil
}

func (b *builder) cutSplinePath(p domain.CutSplinePath) error {
	e, err := b.entities.Get(p.Path, domain.EntitySplinePath)
	if err != nil {
		return err
	}
	g := e.Geometry.(domain.SplinePathGeom)
	lf, err := b.label(g.Points[0])
	if err != nil {
		return err
	}
	ll, err := b.label(g.Points[len(g.Points)-1])
	if err != nil {
		return err
	}
	length, err := b.value("length", p.Length)
	if err != nil {
		return err
	}
	pt, first, second, _, err := g.Path.CutAt(length)
	if err != nil {
		return err
	}
	cut := b.emitPoint(0, p.Name, pt)
	// A path of n segments spans n+1 points: the first half keeps the
	// leading points, the second half the trailing ones.
	firstIDs := append(slices.Clone(g.Points[:len(first.Segments)]), cut)
	secondIDs := append([]domain.ID{cut}, g.Points[len(g.Points)-len(second.Segments):]...)
	b.emitSplinePath(1, firstIDs, first, lf, p.Name)
	b.emitSplinePath(2, secondIDs, second, p.Name, ll)
	return nil
}

func (b *builder) detail(p domain.Detail) error {
	var outline geometry.Outline
	var ids []domain.ID
	for _, n := range p.Nodes {
		e, err := b.entities.Lookup(n.Entity)
		if err != nil {
			return err
		}
		switch g := e.Geometry.(type) {
		case domain.PointGeom:
			outline = outline.AppendPoint(g.Point)
			ids = appendID(ids, e.ID)
		case domain.LineGeom:
			a, c, first, second := g.Segment.A, g.Segment.B, g.First, g.Second
			if n.Reverse {
				a, c, first, second = c, a, second, first
			}
			outline = outline.AppendPoint(a).AppendPoint(c)
			ids = appendID(appendID(ids, first), second)
		case domain.ArcGeom:
			outline = outline.AppendArc(g.Arc, n.Reverse)
		case domain.SplineGeom:
			outline = outline.AppendCubic(g.Curve, n.Reverse)
			first, last := g.First, g.Last
			if n.Reverse {
				first, last = last, first
			}
			ids = appendID(appendID(ids, first), last)
		case domain.SplinePathGeom:
			outline = outline.AppendPath(g.Path, n.Reverse)
			pts := slices.Clone(g.Points)
			if n.Reverse {
				slices.Reverse(pts)
			}
			for _, id := range pts {
				ids = appendID(ids, id)
			}
		default:
			return fmt.Errorf("%w: entity %d (%s) cannot be part of a detail", domain.ErrTypeMismatch, e.ID, e.Type)
		}
	}
	outline = outline.Closed()
	if len(outline) < 3 {
		return fmt.Errorf("%w: detail %s encloses no area", geometry.ErrDegenerate, p.Name)
	}
	if len(ids) > 1 && ids[0] == ids[len(ids)-1] {
		ids = ids[:len(ids)-1]
	}
	b.emit(domain.Entity{
		ID:    b.op.Outputs[0],
		Label: p.Name,
		Type:  domain.EntityDetail,
		Geometry: domain.DetailGeom{
			Nodes:   slices.Clone(p.Nodes),
			Points:  ids,
			Outline: outline,
		},
	})
	return nil
}

// unionDetails joins two details at the first point of the first detail's
// boundary that the second detail also passes through. The outline walks
// the first boundary from that point, then the second one from it; Points
// lists each boundary point once, in walking order.
func (b *builder) unionDetails(p domain.UnionDetails) error {
	first, err := b.entities.Get(p.First, domain.EntityDetail)
	if err != nil {
		return err
	}
	second, err := b.entities.Get(p.Second, domain.EntityDetail)
	if err != nil {
		return err
	}
	g1 := first.Geometry.(domain.DetailGeom)
	g2 := second.Geometry.(domain.DetailGeom)

	nodes2 := slices.Clone(g2.Nodes)
	ids2 := slices.Clone(g2.Points)
	outline2 := slices.Clone(g2.Outline)
	if p.ReverseSecond {
		slices.Reverse(nodes2)
		for i := range nodes2 {
			nodes2[i].Reverse = !nodes2[i].Reverse
		}
		slices.Reverse(ids2)
		slices.Reverse(outline2)
	}

	common := slices.IndexFunc(g1.Points, func(id domain.ID) bool { return slices.Contains(ids2, id) })
	if common < 0 {
		return fmt.Errorf("%w: %s and %s", domain.ErrNoCommonPoint, first.Label, second.Label)
	}
	shared := g1.Points[common]
	at, _, err := b.point(shared)
	if err != nil {
		return err
	}

	var outline geometry.Outline
	for _, pt := range rotateOutline(g1.Outline, at) {
		outline = outline.AppendPoint(pt)
	}
	outline = outline.AppendPoint(at)
	for _, pt := range rotateOutline(outline2, at) {
		outline = outline.AppendPoint(pt)
	}
	outline = outline.Closed()

	ids := rotateIDs(g1.Points, shared)
	for _, id := range rotateIDs(ids2, shared) {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	b.emit(domain.Entity{
		ID:    b.op.Outputs[0],
		Label: p.Name,
		Type:  domain.EntityDetail,
		Geometry: domain.DetailGeom{
			Nodes:   append(slices.Clone(g1.Nodes), nodes2...),
			Points:  ids,
			Outline: outline,
		},
	})
	return nil
}

func appendID(ids []domain.ID, id domain.ID) []domain.ID {
	if len(ids) > 0 && ids[len(ids)-1] == id {
		return ids
	}
	return append(ids, id)
}

// rotateIDs returns ids rotated to start at id.
func rotateIDs(ids []domain.ID, id domain.ID) []domain.ID {
	i := slices.Index(ids, id)
	if i < 0 {
		return slices.Clone(ids)
	}
	return append(slices.Clone(ids[i:]), ids[:i]...)
}

// rotateOutline returns o rotated to start at the vertex nearest to at.
func rotateOutline(o geometry.Outline, at geometry.Point) geometry.Outline {
	if len(o) == 0 {
		return nil
	}
	best := 0
	for i, p := range o {
		if p.Distance(at) < o[best].Distance(at) {
			best = i
		}
	}
	return append(slices.Clone(o[best:]), o[:best]...)
}
