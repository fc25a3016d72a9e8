package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seamwork/drafter/internal/core/domain"
)

// ListEntitiesInput is the input schema for the list_entities tool.
type ListEntitiesInput struct {
	Type string `json:"type,omitempty" jsonschema:"only return entities of this type (point, line, arc, spline, splinepath, detail)"`
}

// ListEntitiesOutput is the output schema for the list_entities tool.
type ListEntitiesOutput struct {
	Entities []EntityOutput `json:"entities"`
	Count    int            `json:"count"`
}

// GetEntityInput is the input schema for the get_entity tool.
type GetEntityInput struct {
	ID    uint32 `json:"id,omitempty" jsonschema:"the entity id"`
	Label string `json:"label,omitempty" jsonschema:"the entity label, used when id is not given"`
}

// ListOperationsOutput is the output schema for the list_operations tool.
type ListOperationsOutput struct {
	Operations []OperationOutput `json:"operations"`
	Count      int               `json:"count"`
}

// FormulaOfInput is the input schema for the formula_of tool.
type FormulaOfInput struct {
	OperationID uint32 `json:"operation_id" jsonschema:"the operation id"`
}

// FormulaOfOutput is the output schema for the formula_of tool.
type FormulaOfOutput struct {
	Formulas map[string]string `json:"formulas"`
}

// EvaluateInput is the input schema for the evaluate tool.
type EvaluateInput struct {
	Formula string `json:"formula" jsonschema:"the formula to evaluate, e.g. Line_A_B/2 + #ease"`
}

// EvaluateOutput is the output schema for the evaluate tool.
type EvaluateOutput struct {
	Value float64 `json:"value"`
}

// registerTools registers the read-only tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_entities",
		Description: "List the entities of the open drafting in construction order",
	}, s.handleListEntities)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_entity",
		Description: "Get one entity of the open drafting by id or label",
	}, s.handleGetEntity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_operations",
		Description: "List the construction operations of the open drafting",
	}, s.handleListOperations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "formula_of",
		Description: "Get the formula fields of an operation",
	}, s.handleFormulaOf)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate",
		Description: "Evaluate a formula against the measurements, increments and derived variables",
	}, s.handleEvaluate)
}

func (s *Server) handleListEntities(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListEntitiesInput,
) (*mcp.CallToolResult, ListEntitiesOutput, error) {
	entities, err := s.ports.Query.Entities()
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}

	output := ListEntitiesOutput{Entities: make([]EntityOutput, 0, len(entities))}
	for i := range entities {
		if input.Type != "" && string(entities[i].Type) != input.Type {
			continue
		}
		output.Entities = append(output.Entities, toEntityOutput(&entities[i]))
	}
	output.Count = len(output.Entities)

	return nil, output, nil
}

func (s *Server) handleGetEntity(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetEntityInput,
) (*mcp.CallToolResult, EntityOutput, error) {
	var (
		entity domain.Entity
		err    error
	)
	switch {
	case input.ID != 0:
		entity, err = s.ports.Query.EntityByID(domain.ID(input.ID))
	case input.Label != "":
		entity, err = s.ports.Query.EntityByLabel(input.Label)
	default:
		return nil, EntityOutput{}, errors.New("id or label is required")
	}
	if err != nil {
		return nil, EntityOutput{}, err
	}
	return nil, toEntityOutput(&entity), nil
}

func (s *Server) handleListOperations(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListOperationsOutput, error) {
	ops, err := s.ports.Query.Operations()
	if err != nil {
		return nil, ListOperationsOutput{}, err
	}

	output := ListOperationsOutput{
		Operations: make([]OperationOutput, len(ops)),
		Count:      len(ops),
	}
	for i := range ops {
		output.Operations[i] = toOperationOutput(&ops[i])
	}
	return nil, output, nil
}

func (s *Server) handleFormulaOf(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FormulaOfInput,
) (*mcp.CallToolResult, FormulaOfOutput, error) {
	formulas, err := s.ports.Query.FormulaOf(domain.ID(input.OperationID))
	if err != nil {
		return nil, FormulaOfOutput{}, err
	}
	return nil, FormulaOfOutput{Formulas: formulas}, nil
}

func (s *Server) handleEvaluate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, EvaluateOutput, error) {
	value, err := s.ports.Query.Evaluate(input.Formula)
	if err != nil {
		return nil, EvaluateOutput{}, fmt.Errorf("evaluating %q: %w", input.Formula, err)
	}
	return nil, EvaluateOutput{Value: value}, nil
}
