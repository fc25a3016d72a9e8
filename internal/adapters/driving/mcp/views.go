package mcp

import (
	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/geometry"
)

// precision is the number of decimals reported for coordinates and lengths.
const precision = 4

// EntityOutput is the JSON view of an entity.
type EntityOutput struct {
	ID     uint32   `json:"id"`
	Label  string   `json:"label"`
	Type   string   `json:"type"`
	Source uint32   `json:"source"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Length *float64 `json:"length,omitempty"`
	Angle  *float64 `json:"angle,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Area   *float64 `json:"area,omitempty"`
	Points []uint32 `json:"points,omitempty"`
}

// OperationOutput is the JSON view of an operation.
type OperationOutput struct {
	ID       uint32            `json:"id"`
	Kind     string            `json:"kind"`
	Group    string            `json:"group,omitempty"`
	Label    string            `json:"label,omitempty"`
	Inputs   []uint32          `json:"inputs,omitempty"`
	Outputs  []uint32          `json:"outputs"`
	Formulas map[string]string `json:"formulas,omitempty"`
}

// VariableOutput is the JSON view of a namespace variable.
type VariableOutput struct {
	Name   string  `json:"name"`
	Kind   string  `json:"kind"`
	Value  float64 `json:"value"`
	Source uint32  `json:"source,omitempty"`
}

// OutcomeOutput is the JSON view of a recomputation outcome.
type OutcomeOutput struct {
	OK       bool   `json:"ok"`
	From     int    `json:"from"`
	Executed int    `json:"executed"`
	Entities int    `json:"entities"`
	Failure  string `json:"failure,omitempty"`
	FailedOp uint32 `json:"failed_op,omitempty"`
	Class    string `json:"class,omitempty"`
}

func num(v float64) *float64 {
	r := geometry.Round(v, precision)
	return &r
}

func ids(in []domain.ID) []uint32 {
	if len(in) == 0 {
		return nil
	}
	out := make([]uint32, len(in))
	for i, id := range in {
		out[i] = uint32(id)
	}
	return out
}

func toEntityOutput(e *domain.Entity) EntityOutput {
	out := EntityOutput{
		ID:     uint32(e.ID),
		Label:  e.Label,
		Type:   string(e.Type),
		Source: uint32(e.Source),
	}
	switch g := e.Geometry.(type) {
	case domain.PointGeom:
		out.X, out.Y = num(g.X), num(g.Y)
	case domain.LineGeom:
		out.Length, out.Angle = num(g.Segment.Length()), num(g.Segment.Angle())
		out.Points = ids([]domain.ID{g.First, g.Second})
	case domain.ArcGeom:
		out.Length, out.Radius = num(g.Arc.Length()), num(g.Arc.Radius)
		out.Points = ids([]domain.ID{g.Center})
	case domain.SplineGeom:
		out.Length = num(g.Curve.Length())
		out.Points = ids([]domain.ID{g.First, g.Last})
	case domain.SplinePathGeom:
		out.Length = num(g.Path.Length())
		out.Points = ids(g.Points)
	case domain.DetailGeom:
		out.Length, out.Area = num(g.Outline.Perimeter()), num(g.Outline.Area())
		out.Points = ids(g.Points)
	}
	return out
}

func toOperationOutput(op *domain.Operation) OperationOutput {
	out := OperationOutput{
		ID:      uint32(op.ID),
		Kind:    string(op.Kind()),
		Group:   op.Group,
		Outputs: ids(op.Outputs),
	}
	if op.Params == nil {
		return out
	}
	out.Label = op.Params.Label()
	out.Inputs = ids(op.Params.Refs())
	if fs := op.Params.Formulas(); len(fs) > 0 {
		out.Formulas = make(map[string]string, len(fs))
		for _, f := range fs {
			out.Formulas[f.Field] = f.Expr
		}
	}
	return out
}

func toVariableOutput(v *domain.Variable) VariableOutput {
	return VariableOutput{
		Name:   v.Name,
		Kind:   string(v.Kind),
		Value:  v.Value,
		Source: uint32(v.Source),
	}
}

func toOutcomeOutput(o domain.RecomputeOutcome) OutcomeOutput {
	out := OutcomeOutput{
		OK:       o.OK(),
		From:     o.From,
		Executed: o.Executed,
		Entities: o.Entities,
	}
	if o.Failure != nil {
		out.Failure = o.Failure.Error()
		out.FailedOp = uint32(o.Failure.OpID)
		out.Class = string(domain.Classify(o.Failure.Cause))
	}
	return out
}
