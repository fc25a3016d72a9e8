package xmlcodec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/seamwork/drafter/internal/core/domain"
)

// Element names.
const (
	elemDrafting   = "drafting"
	elemMeta       = "meta"
	elemIncrements = "increments"
	elemIncrement  = "increment"
	elemOperations = "operations"
	elemOp         = "op"
	elemNode       = "node"
)

// Encode writes the drafting as an indented XML document.
func (c *Codec) Encode(w io.Writer, d *domain.Drafting) error {
	if d == nil {
		return domain.ErrInvalidInput
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	e := &encoder{enc: xml.NewEncoder(w)}
	e.enc.Indent("", "  ")

	version := d.Version
	if version == "" {
		version = domain.CurrentVersion
	}
	root := e.start(elemDrafting,
		"version", version,
		"unit", d.Unit.String(),
		"id", d.ID,
		"next-id", d.NextID.String(),
	)

	if d.Author != "" || d.Description != "" || d.Notes != "" || d.MeasurementsPath != "" {
		meta := e.start(elemMeta)
		e.textElement("author", d.Author)
		e.textElement("description", d.Description)
		e.textElement("notes", d.Notes)
		if d.MeasurementsPath != "" {
			e.empty("measurements", "path", d.MeasurementsPath)
		}
		e.end(meta)
	}

	if len(d.Increments) > 0 {
		incs := e.start(elemIncrements)
		for _, inc := range d.Increments {
			e.empty(elemIncrement,
				"name", inc.Name,
				"formula", inc.Formula,
				optional("description"), inc.Description,
			)
		}
		e.end(incs)
	}

	ops := e.start(elemOperations)
	for i := range d.Operations {
		e.operation(&d.Operations[i])
	}
	e.end(ops)
	e.end(root)

	if e.err == nil {
		e.err = e.enc.Flush()
	}
	if e.err != nil {
		return fmt.Errorf("encode drafting: %w", e.err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// optional marks an attribute name as omitted when its value is empty.
func optional(name string) string {
	return "?" + name
}

// encoder writes tokens, keeping the first failure.
type encoder struct {
	enc *xml.Encoder
	err error
}

func (e *encoder) token(t xml.Token) {
	if e.err == nil {
		e.err = e.enc.EncodeToken(t)
	}
}

// start opens an element with name/value attribute pairs.
func (e *encoder) start(name string, pairs ...string) xml.StartElement {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	for i := 0; i+1 < len(pairs); i += 2 {
		attr, value := pairs[i], pairs[i+1]
		if after, ok := strings.CutPrefix(attr, "?"); ok {
			if value == "" {
				continue
			}
			attr = after
		}
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attr}, Value: value})
	}
	e.token(start)
	return start
}

func (e *encoder) end(start xml.StartElement) {
	e.token(start.End())
}

func (e *encoder) empty(name string, pairs ...string) {
	e.end(e.start(name, pairs...))
}

func (e *encoder) textElement(name, text string) {
	if text == "" {
		return
	}
	start := e.start(name)
	e.token(xml.CharData(text))
	e.end(start)
}

func id(v domain.ID) string {
	return strconv.FormatUint(uint64(v), 10)
}

func ids(v []domain.ID) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = id(x)
	}
	return strings.Join(parts, " ")
}

func (e *encoder) operation(op *domain.Operation) {
	head := []string{
		"id", id(op.ID),
		"kind", op.Kind().String(),
		"outputs", ids(op.Outputs),
		optional("group"), op.Group,
	}

	switch p := op.Params.(type) {
	case domain.SplinePath:
		start := e.start(elemOp, head...)
		for _, n := range p.Nodes {
			e.empty(elemNode,
				"point", id(n.Point),
				optional("angle1"), n.Angle1,
				optional("length1"), n.Length1,
				optional("angle2"), n.Angle2,
				optional("length2"), n.Length2,
			)
		}
		e.end(start)
	case domain.Detail:
		start := e.start(elemOp, append(head, "name", p.Name)...)
		for _, n := range p.Nodes {
			e.empty(elemNode,
				"entity", id(n.Entity),
				optional("reverse"), boolAttr(n.Reverse),
			)
		}
		e.end(start)
	default:
		e.empty(elemOp, append(head, encodeParams(op.Params)...)...)
	}
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// encodeParams returns the attribute pairs of a kind without child nodes.
func encodeParams(params domain.Params) []string {
	switch p := params.(type) {
	case domain.BasePoint:
		return []string{"name", p.Name, "x", p.X, "y", p.Y}
	case domain.EndLine:
		return []string{
			"name", p.Name, "base", id(p.Base),
			"length", p.Length, "angle", p.Angle,
			optional("angle-increment"), p.AngleIncrement,
		}
	case domain.AlongLine:
		return []string{"name", p.Name, "first", id(p.First), "second", id(p.Second), "length", p.Length}
	case domain.Bisector:
		return []string{
			"name", p.Name, "first", id(p.First), "second", id(p.Second), "third", id(p.Third),
			"length", p.Length,
		}
	case domain.Normal:
		return []string{
			"name", p.Name, "first", id(p.First), "second", id(p.Second),
			"length", p.Length, optional("angle-increment"), p.AngleIncrement,
		}
	case domain.Height:
		return []string{"name", p.Name, "base", id(p.Base), "first", id(p.First), "second", id(p.Second)}
	case domain.Line:
		return []string{"first", id(p.First), "second", id(p.Second)}
	case domain.LineIntersect:
		return []string{"name", p.Name, "p1", id(p.P1), "p2", id(p.P2), "p3", id(p.P3), "p4", id(p.P4)}
	case domain.LineIntersectAxis:
		return []string{
			"name", p.Name, "base", id(p.Base), "angle", p.Angle,
			"first", id(p.First), "second", id(p.Second),
		}
	case domain.CurveIntersectAxis:
		return []string{"name", p.Name, "base", id(p.Base), "angle", p.Angle, "curve", id(p.Curve)}
	case domain.Arc:
		return []string{"center", id(p.Center), "radius", p.Radius, "f1", p.F1, "f2", p.F2}
	case domain.Spline:
		return []string{
			"p1", id(p.P1), "p4", id(p.P4),
			"angle1", p.Angle1, "length1", p.Length1,
			"angle2", p.Angle2, "length2", p.Length2,
		}
	case domain.CutArc:
		return []string{"name", p.Name, "arc", id(p.Arc), "length", p.Length}
	case domain.CutSpline:
		return []string{"name", p.Name, "spline", id(p.Spline), "length", p.Length}
	case domain.CutSplinePath:
		return []string{"name", p.Name, "path", id(p.Path), "length", p.Length}
	case domain.UnionDetails:
		return []string{
			"name", p.Name, "first", id(p.First), "second", id(p.Second),
			optional("reverse-second"), boolAttr(p.ReverseSecond),
		}
	default:
		return nil
	}
}
