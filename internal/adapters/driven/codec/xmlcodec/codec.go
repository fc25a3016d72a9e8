package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.DraftingCodec = (*Codec)(nil)

// Codec reads and writes draftings as XML documents.
type Codec struct{}

// New creates a new XML codec.
func New() *Codec {
	return &Codec{}
}

// Extension returns the file extension of the format.
func (c *Codec) Extension() string {
	return ".xml"
}

// Decode parses a drafting document. Every structural failure is reported
// as a *domain.ParseError carrying the position where it was detected.
func (c *Codec) Decode(r io.Reader) (*domain.Drafting, error) {
	p := &parser{
		dec:  xml.NewDecoder(r),
		seen: make(map[domain.ID]bool),
	}
	return p.document()
}

type parser struct {
	dec  *xml.Decoder
	seen map[domain.ID]bool
}

func (p *parser) errorf(format string, args ...any) error {
	line, col := p.dec.InputPos()
	return &domain.ParseError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) wrap(err error, format string, args ...any) error {
	line, col := p.dec.InputPos()
	return &domain.ParseError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...), Err: err}
}

// next returns the next start or end element. Comments, processing
// instructions and whitespace between elements are skipped.
func (p *parser) next() (xml.Token, error) {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return nil, &domain.ParseError{Line: syntaxErr.Line, Msg: syntaxErr.Msg, Err: err}
			}
			return nil, p.wrap(err, "read document: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.EndElement:
			return t, nil
		case xml.CharData:
			if text := bytes.TrimSpace(t); len(text) > 0 {
				return nil, p.errorf("unexpected text %q", string(text))
			}
		}
	}
}

// children calls fn for every child element of parent until its end tag.
func (p *parser) children(parent string, fn func(xml.StartElement) error) error {
	for {
		tok, err := p.next()
		if err == io.EOF {
			return p.errorf("unexpected end of document inside <%s>", parent)
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		}
	}
}

// text reads the character data of a leaf element.
func (p *parser) text(start xml.StartElement) (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return "", p.errorf("unexpected end of document inside <%s>", start.Name.Local)
		}
		if err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return "", &domain.ParseError{Line: syntaxErr.Line, Msg: syntaxErr.Msg, Err: err}
			}
			return "", p.wrap(err, "read document: %v", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			return "", p.errorf("unexpected element <%s> inside <%s>", t.Name.Local, start.Name.Local)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

// leaf consumes the rest of an element that carries no children.
func (p *parser) leaf(start xml.StartElement) error {
	return p.children(start.Name.Local, func(t xml.StartElement) error {
		return p.errorf("unexpected element <%s> inside <%s>", t.Name.Local, start.Name.Local)
	})
}

// claim records an id, failing when it is already taken.
func (p *parser) claim(id domain.ID) error {
	if p.seen[id] {
		return p.wrap(domain.ErrDuplicateID, "duplicate id %d", id)
	}
	p.seen[id] = true
	return nil
}

func (p *parser) document() (*domain.Drafting, error) {
	tok, err := p.next()
	if err == io.EOF {
		return nil, p.errorf("empty document")
	}
	if err != nil {
		return nil, err
	}
	start, ok := tok.(xml.StartElement)
	if !ok || start.Name.Local != elemDrafting {
		return nil, p.errorf("root element must be <%s>", elemDrafting)
	}

	a := p.attrs(start)
	d := &domain.Drafting{
		ID:      a.str("id"),
		Version: a.str("version"),
	}
	unit := a.required("unit")
	nextID := a.optionalID("next-id")
	if a.err != nil {
		return nil, a.err
	}
	if d.Unit, err = domain.ParseUnit(unit); err != nil {
		return nil, p.wrap(err, "unknown unit %q", unit)
	}
	if d.Version == "" {
		d.Version = domain.CurrentVersion
	}

	err = p.children(elemDrafting, func(t xml.StartElement) error {
		switch t.Name.Local {
		case elemMeta:
			return p.meta(d)
		case elemIncrements:
			return p.increments(d)
		case elemOperations:
			return p.operations(d)
		default:
			return p.errorf("unknown element <%s> in <%s>", t.Name.Local, elemDrafting)
		}
	})
	if err != nil {
		return nil, err
	}
	if _, err := p.next(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, p.errorf("content after </%s>", elemDrafting)
	}

	switch {
	case nextID == 0:
		d.NextID = d.MaxID() + 1
	case nextID <= d.MaxID():
		return nil, p.wrap(domain.ErrDuplicateID, "next-id %d does not exceed assigned id %d", nextID, d.MaxID())
	default:
		d.NextID = nextID
	}
	if err := d.Validate(); err != nil {
		return nil, p.wrap(err, "invalid drafting: %v", err)
	}
	return d, nil
}

func (p *parser) meta(d *domain.Drafting) error {
	return p.children(elemMeta, func(t xml.StartElement) error {
		var err error
		switch t.Name.Local {
		case "author":
			d.Author, err = p.text(t)
		case "description":
			d.Description, err = p.text(t)
		case "notes":
			d.Notes, err = p.text(t)
		case "measurements":
			a := p.attrs(t)
			d.MeasurementsPath = a.required("path")
			if a.err != nil {
				return a.err
			}
			err = p.leaf(t)
		default:
			err = p.errorf("unknown element <%s> in <%s>", t.Name.Local, elemMeta)
		}
		return err
	})
}

func (p *parser) increments(d *domain.Drafting) error {
	return p.children(elemIncrements, func(t xml.StartElement) error {
		if t.Name.Local != elemIncrement {
			return p.errorf("unknown element <%s> in <%s>", t.Name.Local, elemIncrements)
		}
		a := p.attrs(t)
		inc := domain.Increment{
			Name:        a.required("name"),
			Formula:     a.required("formula"),
			Description: a.str("description"),
		}
		if a.err != nil {
			return a.err
		}
		if err := domain.ValidateIncrementName(inc.Name); err != nil {
			return p.wrap(err, "%v", err)
		}
		if d.IncrementIndex(inc.Name) >= 0 {
			return p.wrap(domain.ErrDuplicateName, "duplicate increment %s", inc.Name)
		}
		d.Increments = append(d.Increments, inc)
		return p.leaf(t)
	})
}

func (p *parser) operations(d *domain.Drafting) error {
	return p.children(elemOperations, func(t xml.StartElement) error {
		if t.Name.Local != elemOp {
			return p.errorf("unknown element <%s> in <%s>", t.Name.Local, elemOperations)
		}
		op, err := p.operation(t)
		if err != nil {
			return err
		}
		d.Operations = append(d.Operations, op)
		return nil
	})
}

func (p *parser) operation(start xml.StartElement) (domain.Operation, error) {
	a := p.attrs(start)
	op := domain.Operation{
		ID:    a.id("id"),
		Group: a.str("group"),
	}
	kind := domain.OpKind(a.required("kind"))
	if a.err != nil {
		return op, a.err
	}
	if !kind.IsValid() {
		return op, p.wrap(domain.ErrUnsupportedType, "unknown operation kind %q", kind)
	}
	op.Outputs = a.ids("outputs", len(kind.Outputs()))

	var err error
	switch kind {
	case domain.KindSplinePath:
		op.Params, err = p.splinePath(start)
	case domain.KindDetail:
		op.Params, err = p.detail(start, a)
	default:
		op.Params = decodeParams(kind, a)
		if a.err == nil {
			err = p.leaf(start)
		}
	}
	if a.err != nil {
		return op, a.err
	}
	if err != nil {
		return op, err
	}

	if err := p.claim(op.ID); err != nil {
		return op, err
	}
	for _, out := range op.Outputs {
		if err := p.claim(out); err != nil {
			return op, err
		}
	}
	if err := op.Validate(); err != nil {
		return op, p.wrap(err, "%v", err)
	}
	return op, nil
}

func (p *parser) splinePath(start xml.StartElement) (domain.Params, error) {
	var path domain.SplinePath
	err := p.children(start.Name.Local, func(t xml.StartElement) error {
		if t.Name.Local != elemNode {
			return p.errorf("unknown element <%s> in spline path", t.Name.Local)
		}
		a := p.attrs(t)
		node := domain.PathNode{
			Point:   a.id("point"),
			Angle1:  a.str("angle1"),
			Length1: a.str("length1"),
			Angle2:  a.str("angle2"),
			Length2: a.str("length2"),
		}
		if a.err != nil {
			return a.err
		}
		path.Nodes = append(path.Nodes, node)
		return p.leaf(t)
	})
	return path, err
}

func (p *parser) detail(start xml.StartElement, a *attrs) (domain.Params, error) {
	detail := domain.Detail{Name: a.required("name")}
	if a.err != nil {
		return nil, a.err
	}
	err := p.children(start.Name.Local, func(t xml.StartElement) error {
		if t.Name.Local != elemNode {
			return p.errorf("unknown element <%s> in detail", t.Name.Local)
		}
		na := p.attrs(t)
		node := domain.DetailNode{
			Entity:  na.id("entity"),
			Reverse: na.bool("reverse"),
		}
		if na.err != nil {
			return na.err
		}
		detail.Nodes = append(detail.Nodes, node)
		return p.leaf(t)
	})
	return detail, err
}

// decodeParams reads the attributes of a kind without child nodes.
// Failures are recorded on a.
func decodeParams(kind domain.OpKind, a *attrs) domain.Params {
	switch kind {
	case domain.KindBasePoint:
		return domain.BasePoint{Name: a.required("name"), X: a.required("x"), Y: a.required("y")}
	case domain.KindEndLine:
		return domain.EndLine{
			Name: a.required("name"), Base: a.id("base"),
			Length: a.required("length"), Angle: a.required("angle"),
			AngleIncrement: a.str("angle-increment"),
		}
	case domain.KindAlongLine:
		return domain.AlongLine{
			Name: a.required("name"), First: a.id("first"), Second: a.id("second"),
			Length: a.required("length"),
		}
	case domain.KindBisector:
		return domain.Bisector{
			Name: a.required("name"), First: a.id("first"), Second: a.id("second"), Third: a.id("third"),
			Length: a.required("length"),
		}
	case domain.KindNormal:
		return domain.Normal{
			Name: a.required("name"), First: a.id("first"), Second: a.id("second"),
			Length: a.required("length"), AngleIncrement: a.str("angle-increment"),
		}
	case domain.KindHeight:
		return domain.Height{Name: a.required("name"), Base: a.id("base"), First: a.id("first"), Second: a.id("second")}
	case domain.KindLine:
		return domain.Line{First: a.id("first"), Second: a.id("second")}
	case domain.KindLineIntersect:
		return domain.LineIntersect{
			Name: a.required("name"),
			P1:   a.id("p1"), P2: a.id("p2"), P3: a.id("p3"), P4: a.id("p4"),
		}
	case domain.KindLineIntersectAxis:
		return domain.LineIntersectAxis{
			Name: a.required("name"), Base: a.id("base"), Angle: a.required("angle"),
			First: a.id("first"), Second: a.id("second"),
		}
	case domain.KindCurveIntersectAxis:
		return domain.CurveIntersectAxis{
			Name: a.required("name"), Base: a.id("base"), Angle: a.required("angle"),
			Curve: a.id("curve"),
		}
	case domain.KindArc:
		return domain.Arc{Center: a.id("center"), Radius: a.required("radius"), F1: a.required("f1"), F2: a.required("f2")}
	case domain.KindSpline:
		return domain.Spline{
			P1: a.id("p1"), P4: a.id("p4"),
			Angle1: a.required("angle1"), Length1: a.required("length1"),
			Angle2: a.required("angle2"), Length2: a.required("length2"),
		}
	case domain.KindCutArc:
		return domain.CutArc{Name: a.required("name"), Arc: a.id("arc"), Length: a.required("length")}
	case domain.KindCutSpline:
		return domain.CutSpline{Name: a.required("name"), Spline: a.id("spline"), Length: a.required("length")}
	case domain.KindCutSplinePath:
		return domain.CutSplinePath{Name: a.required("name"), Path: a.id("path"), Length: a.required("length")}
	case domain.KindUnionDetails:
		return domain.UnionDetails{
			Name: a.required("name"), First: a.id("first"), Second: a.id("second"),
			ReverseSecond: a.bool("reverse-second"),
		}
	default:
		a.fail(domain.ErrUnsupportedType, "operation kind %q has no attribute form", kind)
		return nil
	}
}

// attrs reads element attributes, keeping the first failure.
// Attributes it is never asked about are ignored.
type attrs struct {
	p    *parser
	elem string
	m    map[string]string
	err  error
}

func (p *parser) attrs(start xml.StartElement) *attrs {
	m := make(map[string]string, len(start.Attr))
	for _, attr := range start.Attr {
		if attr.Name.Space == "" {
			m[attr.Name.Local] = attr.Value
		}
	}
	return &attrs{p: p, elem: start.Name.Local, m: m}
}

func (a *attrs) fail(err error, format string, args ...any) {
	if a.err == nil {
		a.err = a.p.wrap(err, format, args...)
	}
}

func (a *attrs) str(name string) string {
	return a.m[name]
}

func (a *attrs) required(name string) string {
	v, ok := a.m[name]
	if !ok {
		a.fail(domain.ErrInvalidInput, "<%s> is missing required attribute %q", a.elem, name)
	}
	return v
}

func (a *attrs) id(name string) domain.ID {
	v, ok := a.m[name]
	if !ok {
		a.fail(domain.ErrInvalidInput, "<%s> is missing required attribute %q", a.elem, name)
		return 0
	}
	return a.parseID(name, v)
}

func (a *attrs) optionalID(name string) domain.ID {
	v, ok := a.m[name]
	if !ok {
		return 0
	}
	return a.parseID(name, v)
}

func (a *attrs) parseID(name, v string) domain.ID {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil || n == 0 {
		a.fail(domain.ErrInvalidInput, "<%s> attribute %q: %q is not a positive id", a.elem, name, v)
		return 0
	}
	return domain.ID(n)
}

// ids reads a space separated list of exactly n ids.
func (a *attrs) ids(name string, n int) []domain.ID {
	v, ok := a.m[name]
	if !ok {
		a.fail(domain.ErrInvalidInput, "<%s> is missing required attribute %q", a.elem, name)
		return nil
	}
	fields := strings.Fields(v)
	if len(fields) != n {
		a.fail(domain.ErrInvalidInput, "<%s> attribute %q needs %d ids, has %d", a.elem, name, n, len(fields))
		return nil
	}
	out := make([]domain.ID, 0, n)
	for _, f := range fields {
		out = append(out, a.parseID(name, f))
	}
	return out
}

func (a *attrs) bool(name string) bool {
	v, ok := a.m[name]
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		a.fail(domain.ErrInvalidInput, "<%s> attribute %q: %q is not a boolean", a.elem, name, v)
	}
	return b
}
