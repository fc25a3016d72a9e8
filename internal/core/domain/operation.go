package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// OpKind tags a construction operation.
type OpKind string

// Operation kinds.
const (
	KindBasePoint          OpKind = "base_point"
	KindEndLine            OpKind = "end_line"
	KindAlongLine          OpKind = "along_line"
	KindBisector           OpKind = "bisector"
	KindNormal             OpKind = "normal"
	KindHeight             OpKind = "height"
	KindLine               OpKind = "line"
	KindLineIntersect      OpKind = "line_intersect"
	KindLineIntersectAxis  OpKind = "line_intersect_axis"
	KindCurveIntersectAxis OpKind = "curve_intersect_axis"
	KindArc                OpKind = "arc"
	KindSpline             OpKind = "spline"
	KindSplinePath         OpKind = "spline_path"
	KindCutArc             OpKind = "cut_arc"
	KindCutSpline          OpKind = "cut_spline"
	KindCutSplinePath      OpKind = "cut_spline_path"
	KindDetail             OpKind = "detail"
	KindUnionDetails       OpKind = "union_details"
)

// outputTypes lists, per kind, the entity types an operation produces in order.
var outputTypes = map[OpKind][]EntityType{
	KindBasePoint:          {EntityPoint},
	KindEndLine:            {EntityPoint, EntityLine},
	KindAlongLine:          {EntityPoint, EntityLine},
	KindBisector:           {EntityPoint, EntityLine},
	KindNormal:             {EntityPoint, EntityLine},
	KindHeight:             {EntityPoint, EntityLine},
	KindLine:               {EntityLine},
	KindLineIntersect:      {EntityPoint},
	KindLineIntersectAxis:  {EntityPoint, EntityLine},
	KindCurveIntersectAxis: {EntityPoint, EntityLine},
	KindArc:                {EntityArc},
	KindSpline:             {EntitySpline},
	KindSplinePath:         {EntitySplinePath},
	KindCutArc:             {EntityPoint, EntityArc, EntityArc},
	KindCutSpline:          {EntityPoint, EntitySpline, EntitySpline},
	KindCutSplinePath:      {EntityPoint, EntitySplinePath, EntitySplinePath},
	KindDetail:             {EntityDetail},
	KindUnionDetails:       {EntityDetail},
}

// OperationKinds returns every operation kind.
func OperationKinds() []OpKind {
	return []OpKind{
		KindBasePoint, KindEndLine, KindAlongLine, KindBisector, KindNormal, KindHeight,
		KindLine, KindLineIntersect, KindLineIntersectAxis, KindCurveIntersectAxis,
		KindArc, KindSpline, KindSplinePath, KindCutArc, KindCutSpline, KindCutSplinePath,
		KindDetail, KindUnionDetails,
	}
}

// IsValid returns true if the kind is recognised.
func (k OpKind) IsValid() bool {
	_, ok := outputTypes[k]
	return ok
}

// String returns the string representation.
func (k OpKind) String() string {
	return string(k)
}

// Outputs returns the entity types produced by operations of this kind.
func (k OpKind) Outputs() []EntityType {
	return outputTypes[k]
}

// Formula is one named formula field of an operation.
type Formula struct {
	Field string
	Expr  string
}

// Params is the closed set of operation parameter variants.
// Every variant is a value type; With* methods return modified copies.
type Params interface {
	// Kind returns the operation kind of this variant.
	Kind() OpKind

	// Refs returns the input entity ids in declaration order.
	Refs() []ID

	// Formulas returns the non-empty formula fields.
	Formulas() []Formula

	// WithFormula returns a copy with the named field replaced.
	WithFormula(field, expr string) (Params, error)

	// Label returns the user label of the produced point or detail, if any.
	Label() string

	// WithLabel returns a copy with the label replaced.
	WithLabel(label string) Params

	isParams()
}

// Operation is one ordered construction step.
type Operation struct {
	// ID identifies the operation itself.
	ID ID

	// Group names the drawing block the operation is displayed in.
	Group string

	// Outputs are the entity ids the operation produces, in the order
	// given by its kind's Outputs.
	Outputs []ID

	// Params holds the kind-specific inputs.
	Params Params
}

// Kind returns the operation kind.
func (o *Operation) Kind() OpKind {
	if o.Params == nil {
		return ""
	}
	return o.Params.Kind()
}

// Clone returns a deep copy.
func (o *Operation) Clone() Operation {
	c := *o
	c.Outputs = append([]ID(nil), o.Outputs...)
	c.Params = CloneParams(o.Params)
	return c
}

// Validate checks the operation's structural invariants.
func (o *Operation) Validate() error {
	if o.ID == 0 {
		return fmt.Errorf("%w: operation id is required", ErrInvalidInput)
	}
	if o.Params == nil || !o.Kind().IsValid() {
		return fmt.Errorf("%w: operation %d has no valid kind", ErrUnsupportedType, o.ID)
	}
	if want := len(o.Kind().Outputs()); len(o.Outputs) != want {
		return fmt.Errorf("%w: operation %d (%s) needs %d outputs, has %d", ErrInvalidInput, o.ID, o.Kind(), want, len(o.Outputs))
	}
	for _, ref := range o.Params.Refs() {
		if ref == 0 {
			return fmt.Errorf("%w: operation %d (%s) has an empty reference", ErrInvalidInput, o.ID, o.Kind())
		}
	}
	if label := o.Params.Label(); o.Kind().Outputs()[0] == EntityPoint || o.Kind().Outputs()[0] == EntityDetail {
		if err := ValidateLabel(label); err != nil {
			return fmt.Errorf("operation %d: %w", o.ID, err)
		}
	}
	switch p := o.Params.(type) {
	case SplinePath:
		if len(p.Nodes) < 2 {
			return fmt.Errorf("%w: spline path %d needs at least two nodes", ErrInvalidInput, o.ID)
		}
	case Detail:
		if len(p.Nodes) < 2 {
			return fmt.Errorf("%w: detail %d needs at least two nodes", ErrInvalidInput, o.ID)
		}
	}
	return nil
}

// ApplyFields returns a copy of p with every field in fields replaced.
func ApplyFields(p Params, fields map[string]string) (Params, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	var err error
	for _, name := range names {
		if p, err = p.WithFormula(name, fields[name]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// CloneParams deep-copies variants that hold slices.
func CloneParams(p Params) Params {
	switch v := p.(type) {
	case SplinePath:
		v.Nodes = append([]PathNode(nil), v.Nodes...)
		return v
	case Detail:
		v.Nodes = append([]DetailNode(nil), v.Nodes...)
		return v
	default:
		return p
	}
}

func unknownField(k OpKind, field string) error {
	return fmt.Errorf("%w: %s has no formula field %q", ErrInvalidInput, k, field)
}

func formulas(pairs ...string) []Formula {
	var out []Formula
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) != "" {
			out = append(out, Formula{Field: pairs[i], Expr: pairs[i+1]})
		}
	}
	return out
}

// BasePoint places a free point at formula coordinates.
type BasePoint struct {
	Name string
	X, Y string
}

func (BasePoint) isParams()             {}
func (BasePoint) Kind() OpKind          { return KindBasePoint }
func (BasePoint) Refs() []ID            { return nil }
func (p BasePoint) Label() string       { return p.Name }
func (p BasePoint) Formulas() []Formula { return formulas("x", p.X, "y", p.Y) }

// WithLabel returns a copy with the label replaced.
func (p BasePoint) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p BasePoint) WithFormula(field, expr string) (Params, error) {
	switch field {
	case "x":
		p.X = expr
	case "y":
		p.Y = expr
	default:
		return nil, unknownField(p.Kind(), field)
	}
	return p, nil
}

// EndLine places a point at a length and angle from a base point.
type EndLine struct {
	Name           string
	Base           ID
	Length, Angle  string
	AngleIncrement string
}

func (EndLine) isParams()       {}
func (EndLine) Kind() OpKind    { return KindEndLine }
func (p EndLine) Refs() []ID    { return []ID{p.Base} }
func (p EndLine) Label() string { return p.Name }

// Formulas returns the non-empty formula fields.
func (p EndLine) Formulas() []Formula {
	return formulas("length", p.Length, "angle", p.Angle, "angle_increment", p.AngleIncrement)
}

// WithLabel returns a copy with the label replaced.
func (p EndLine) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p EndLine) WithFormula(field, expr string) (Params, error) {
	switch field {
	case "length":
		p.Length = expr
	case "angle":
		p.Angle = expr
	case "angle_increment":
		p.AngleIncrement = expr
	default:
		return nil, unknownField(p.Kind(), field)
	}
	return p, nil
}

// AlongLine places a point at a length from First towards Second.
type AlongLine struct {
	Name          string
	First, Second ID
	Length        string
}

func (AlongLine) isParams()             {}
func (AlongLine) Kind() OpKind          { return KindAlongLine }
func (p AlongLine) Refs() []ID          { return []ID{p.First, p.Second} }
func (p AlongLine) Label() string       { return p.Name }
func (p AlongLine) Formulas() []Formula { return formulas("length", p.Length) }

// WithLabel returns a copy with the label replaced.
func (p AlongLine) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p AlongLine) WithFormula(field, expr string) (Params, error) {
	if field != "length" {
		return nil, unknownField(p.Kind(), field)
	}
	p.Length = expr
	return p, nil
}

// Bisector places a point at a length from First along the ray bisecting
// the angle Second-First-Third.
type Bisector struct {
	Name                 string
	First, Second, Third ID
	Length               string
}

func (Bisector) isParams()             {}
func (Bisector) Kind() OpKind          { return KindBisector }
func (p Bisector) Refs() []ID          { return []ID{p.First, p.Second, p.Third} }
func (p Bisector) Label() string       { return p.Name }
func (p Bisector) Formulas() []Formula { return formulas("length", p.Length) }

// WithLabel returns a copy with the label replaced.
func (p Bisector) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p Bisector) WithFormula(field, expr string) (Params, error) {
	if field != "length" {
		return nil, unknownField(p.Kind(), field)
	}
	p.Length = expr
	return p, nil
}

// Normal places a point at a length from First, perpendicular to the line
// First-Second and rotated by an optional angle increment.
type Normal struct {
	Name           string
	First, Second  ID
	Length         string
	AngleIncrement string
}

func (Normal) isParams()       {}
func (Normal) Kind() OpKind    { return KindNormal }
func (p Normal) Refs() []ID    { return []ID{p.First, p.Second} }
func (p Normal) Label() string { return p.Name }

// Formulas returns the non-empty formula fields.
func (p Normal) Formulas() []Formula {
	return formulas("length", p.Length, "angle_increment", p.AngleIncrement)
}

// WithLabel returns a copy with the label replaced.
func (p Normal) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p Normal) WithFormula(field, expr string) (Params, error) {
	switch field {
	case "length":
		p.Length = expr
	case "angle_increment":
		p.AngleIncrement = expr
	default:
		return nil, unknownField(p.Kind(), field)
	}
	return p, nil
}

// Height places the foot of the perpendicular from Base onto the line First-Second.
type Height struct {
	Name                string
	Base, First, Second ID
}

func (Height) isParams()           {}
func (Height) Kind() OpKind        { return KindHeight }
func (p Height) Refs() []ID        { return []ID{p.Base, p.First, p.Second} }
func (p Height) Label() string     { return p.Name }
func (Height) Formulas() []Formula { return nil }

// WithLabel returns a copy with the label replaced.
func (p Height) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula always fails: the variant has no formulas.
func (p Height) WithFormula(field, _ string) (Params, error) {
	return nil, unknownField(p.Kind(), field)
}

// Line draws a segment between two existing points.
type Line struct {
	First, Second ID
}

func (Line) isParams()                 {}
func (Line) Kind() OpKind              { return KindLine }
func (p Line) Refs() []ID              { return []ID{p.First, p.Second} }
func (Line) Label() string             { return "" }
func (Line) Formulas() []Formula       { return nil }
func (p Line) WithLabel(string) Params { return p }

// WithFormula always fails: the variant has no formulas.
func (p Line) WithFormula(field, _ string) (Params, error) {
	return nil, unknownField(p.Kind(), field)
}

// LineIntersect places a point where the lines P1-P2 and P3-P4 cross.
type LineIntersect struct {
	Name           string
	P1, P2, P3, P4 ID
}

func (LineIntersect) isParams()           {}
func (LineIntersect) Kind() OpKind        { return KindLineIntersect }
func (p LineIntersect) Refs() []ID        { return []ID{p.P1, p.P2, p.P3, p.P4} }
func (p LineIntersect) Label() string     { return p.Name }
func (LineIntersect) Formulas() []Formula { return nil }

// WithLabel returns a copy with the label replaced.
func (p LineIntersect) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula always fails: the variant has no formulas.
func (p LineIntersect) WithFormula(field, _ string) (Params, error) {
	return nil, unknownField(p.Kind(), field)
}

// LineIntersectAxis places a point where the axis through Base at Angle
// crosses the line First-Second.
type LineIntersectAxis struct {
	Name          string
	Base          ID
	Angle         string
	First, Second ID
}

func (LineIntersectAxis) isParams()             {}
func (LineIntersectAxis) Kind() OpKind          { return KindLineIntersectAxis }
func (p LineIntersectAxis) Refs() []ID          { return []ID{p.Base, p.First, p.Second} }
func (p LineIntersectAxis) Label() string       { return p.Name }
func (p LineIntersectAxis) Formulas() []Formula { return formulas("angle", p.Angle) }

// WithLabel returns a copy with the label replaced.
func (p LineIntersectAxis) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p LineIntersectAxis) WithFormula(field, expr string) (Params, error) {
	if field != "angle" {
		return nil, unknownField(p.Kind(), field)
	}
	p.Angle = expr
	return p, nil
}

// CurveIntersectAxis places a point where the axis through Base at Angle
// crosses an arc, spline or spline path.
type CurveIntersectAxis struct {
	Name  string
	Base  ID
	Angle string
	Curve ID
}

func (CurveIntersectAxis) isParams()             {}
func (CurveIntersectAxis) Kind() OpKind          { return KindCurveIntersectAxis }
func (p CurveIntersectAxis) Refs() []ID          { return []ID{p.Base, p.Curve} }
func (p CurveIntersectAxis) Label() string       { return p.Name }
func (p CurveIntersectAxis) Formulas() []Formula { return formulas("angle", p.Angle) }

// WithLabel returns a copy with the label replaced.
func (p CurveIntersectAxis) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p CurveIntersectAxis) WithFormula(field, expr string) (Params, error) {
	if field != "angle" {
		return nil, unknownField(p.Kind(), field)
	}
	p.Angle = expr
	return p, nil
}

// Arc draws a circular arc around Center from angle F1 to F2.
type Arc struct {
	Center ID
	Radius string
	F1, F2 string
}

func (Arc) isParams()                 {}
func (Arc) Kind() OpKind              { return KindArc }
func (p Arc) Refs() []ID              { return []ID{p.Center} }
func (Arc) Label() string             { return "" }
func (p Arc) WithLabel(string) Params { return p }

// Formulas returns the non-empty formula fields.
func (p Arc) Formulas() []Formula {
	return formulas("radius", p.Radius, "f1", p.F1, "f2", p.F2)
}

// WithFormula returns a copy with the named field replaced.
func (p Arc) WithFormula(field, expr string) (Params, error) {
	switch field {
	case "radius":
		p.Radius = expr
	case "f1":
		p.F1 = expr
	case "f2":
		p.F2 = expr
	default:
		return nil, unknownField(p.Kind(), field)
	}
	return p, nil
}

// Spline draws a cubic curve from P1 to P4. The control points lie at
// (Angle1, Length1) from P1 and (Angle2, Length2) from P4.
type Spline struct {
	P1, P4          ID
	Angle1, Length1 string
	Angle2, Length2 string
}

func (Spline) isParams()                 {}
func (Spline) Kind() OpKind              { return KindSpline }
func (p Spline) Refs() []ID              { return []ID{p.P1, p.P4} }
func (Spline) Label() string             { return "" }
func (p Spline) WithLabel(string) Params { return p }

// Formulas returns the non-empty formula fields.
func (p Spline) Formulas() []Formula {
	return formulas("angle1", p.Angle1, "length1", p.Length1, "angle2", p.Angle2, "length2", p.Length2)
}

// WithFormula returns a copy with the named field replaced.
func (p Spline) WithFormula(field, expr string) (Params, error) {
	switch field {
	case "angle1":
		p.Angle1 = expr
	case "length1":
		p.Length1 = expr
	case "angle2":
		p.Angle2 = expr
	case "length2":
		p.Length2 = expr
	default:
		return nil, unknownField(p.Kind(), field)
	}
	return p, nil
}

// PathNode is one point of a spline path with its incoming (1) and
// outgoing (2) control arms.
type PathNode struct {
	Point           ID
	Angle1, Length1 string
	Angle2, Length2 string
}

// SplinePath chains cubic curves through its nodes.
type SplinePath struct {
	Nodes []PathNode
}

func (SplinePath) isParams()                 {}
func (SplinePath) Kind() OpKind              { return KindSplinePath }
func (SplinePath) Label() string             { return "" }
func (p SplinePath) WithLabel(string) Params { return p }

// Refs returns the node points in order.
func (p SplinePath) Refs() []ID {
	refs := make([]ID, len(p.Nodes))
	for i, n := range p.Nodes {
		refs[i] = n.Point
	}
	return refs
}

// Formulas returns the non-empty formula fields as node<i>.<field>.
func (p SplinePath) Formulas() []Formula {
	var out []Formula
	for i, n := range p.Nodes {
		prefix := "node" + strconv.Itoa(i) + "."
		out = append(out, formulas(
			prefix+"angle1", n.Angle1, prefix+"length1", n.Length1,
			prefix+"angle2", n.Angle2, prefix+"length2", n.Length2,
		)...)
	}
	return out
}

// WithFormula returns a copy with the named node field replaced.
func (p SplinePath) WithFormula(field, expr string) (Params, error) {
	node, name, ok := strings.Cut(strings.TrimPrefix(field, "node"), ".")
	idx, err := strconv.Atoi(node)
	if !ok || !strings.HasPrefix(field, "node") || err != nil || idx < 0 || idx >= len(p.Nodes) {
		return nil, unknownField(p.Kind(), field)
	}
	nodes := append([]PathNode(nil), p.Nodes...)
	switch name {
	case "angle1":
		nodes[idx].Angle1 = expr
	case "length1":
		nodes[idx].Length1 = expr
	case "angle2":
		nodes[idx].Angle2 = expr
	case "length2":
		nodes[idx].Length2 = expr
	default:
		return nil, unknownField(p.Kind(), field)
	}
	p.Nodes = nodes
	return p, nil
}

// CutArc places a point at a length along an arc and splits it in two.
type CutArc struct {
	Name   string
	Arc    ID
	Length string
}

func (CutArc) isParams()             {}
func (CutArc) Kind() OpKind          { return KindCutArc }
func (p CutArc) Refs() []ID          { return []ID{p.Arc} }
func (p CutArc) Label() string       { return p.Name }
func (p CutArc) Formulas() []Formula { return formulas("length", p.Length) }

// WithLabel returns a copy with the label replaced.
func (p CutArc) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p CutArc) WithFormula(field, expr string) (Params, error) {
	if field != "length" {
		return nil, unknownField(p.Kind(), field)
	}
	p.Length = expr
	return p, nil
}

// CutSpline places a point at a length along a spline and splits it in two.
type CutSpline struct {
	Name   string
	Spline ID
	Length string
}

func (CutSpline) isParams()             {}
func (CutSpline) Kind() OpKind          { return KindCutSpline }
func (p CutSpline) Refs() []ID          { return []ID{p.Spline} }
func (p CutSpline) Label() string       { return p.Name }
func (p CutSpline) Formulas() []Formula { return formulas("length", p.Length) }

// WithLabel returns a copy with the label replaced.
func (p CutSpline) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p CutSpline) WithFormula(field, expr string) (Params, error) {
	if field != "length" {
		return nil, unknownField(p.Kind(), field)
	}
	p.Length = expr
	return p, nil
}

// CutSplinePath places a point at a length along a spline path and splits it in two.
type CutSplinePath struct {
	Name   string
	Path   ID
	Length string
}

func (CutSplinePath) isParams()             {}
func (CutSplinePath) Kind() OpKind          { return KindCutSplinePath }
func (p CutSplinePath) Refs() []ID          { return []ID{p.Path} }
func (p CutSplinePath) Label() string       { return p.Name }
func (p CutSplinePath) Formulas() []Formula { return formulas("length", p.Length) }

// WithLabel returns a copy with the label replaced.
func (p CutSplinePath) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula returns a copy with the named field replaced.
func (p CutSplinePath) WithFormula(field, expr string) (Params, error) {
	if field != "length" {
		return nil, unknownField(p.Kind(), field)
	}
	p.Length = expr
	return p, nil
}

// DetailNode is one entity on a detail's boundary.
type DetailNode struct {
	Entity  ID
	Reverse bool
}

// Detail aggregates points and curves into a closed outline.
type Detail struct {
	Name  string
	Nodes []DetailNode
}

func (Detail) isParams()           {}
func (Detail) Kind() OpKind        { return KindDetail }
func (p Detail) Label() string     { return p.Name }
func (Detail) Formulas() []Formula { return nil }

// Refs returns the boundary entities in order.
func (p Detail) Refs() []ID {
	refs := make([]ID, len(p.Nodes))
	for i, n := range p.Nodes {
		refs[i] = n.Entity
	}
	return refs
}

// WithLabel returns a copy with the label replaced.
func (p Detail) WithLabel(label string) Params {
	p.Name = label
	p.Nodes = append([]DetailNode(nil), p.Nodes...)
	return p
}

// WithFormula always fails: the variant has no formulas.
func (p Detail) WithFormula(field, _ string) (Params, error) {
	return nil, unknownField(p.Kind(), field)
}

// UnionDetails joins two details that share a boundary point.
type UnionDetails struct {
	Name          string
	First, Second ID
	ReverseSecond bool
}

func (UnionDetails) isParams()           {}
func (UnionDetails) Kind() OpKind        { return KindUnionDetails }
func (p UnionDetails) Refs() []ID        { return []ID{p.First, p.Second} }
func (p UnionDetails) Label() string     { return p.Name }
func (UnionDetails) Formulas() []Formula { return nil }

// WithLabel returns a copy with the label replaced.
func (p UnionDetails) WithLabel(label string) Params { p.Name = label; return p }

// WithFormula always fails: the variant has no formulas.
func (p UnionDetails) WithFormula(field, _ string) (Params, error) {
	return nil, unknownField(p.Kind(), field)
}
