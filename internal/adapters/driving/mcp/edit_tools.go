package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seamwork/drafter/internal/core/domain"
)

// EditOperationInput is the input schema for the edit_operation and
// propose_edit tools.
type EditOperationInput struct {
	OperationID uint32            `json:"operation_id" jsonschema:"the operation to edit"`
	Fields      map[string]string `json:"fields" jsonschema:"formula fields to replace, keyed by field name"`
}

// ProposeEditOutput is the output schema for the propose_edit tool.
type ProposeEditOutput struct {
	Operation OperationOutput `json:"operation"`
	Outcome   OutcomeOutput   `json:"outcome"`
	Entities  []EntityOutput  `json:"entities"`
}

// RenameLabelInput is the input schema for the rename_label tool.
type RenameLabelInput struct {
	Old string `json:"old" jsonschema:"the current point or detail label"`
	New string `json:"new" jsonschema:"the new label"`
}

// SetIncrementInput is the input schema for the set_increment tool.
type SetIncrementInput struct {
	Name        string `json:"name" jsonschema:"the increment name, starting with #"`
	Formula     string `json:"formula" jsonschema:"the increment formula"`
	Description string `json:"description,omitempty" jsonschema:"free text shown to the user"`
}

// ResolveInput is the input schema for the resolve tool.
type ResolveInput struct {
	Resolution string `json:"resolution" jsonschema:"accept keeps the broken edit, revert undoes it"`
}

// SaveOutput is the output schema for the save_drafting tool.
type SaveOutput struct {
	Path string `json:"path"`
}

// EditOutput is the output schema for the editing tools.
type EditOutput struct {
	Outcome OutcomeOutput `json:"outcome"`
	Pending bool          `json:"pending"`
	Undo    []string      `json:"undo"`
	Redo    []string      `json:"redo"`
}

// registerEditTools registers the tools that change the drafting.
func (s *Server) registerEditTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_operation",
		Description: "Replace formula fields of an operation and recompute",
	}, s.handleEditOperation)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "propose_edit",
		Description: "Preview a formula edit without changing the drafting",
	}, s.handleProposeEdit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rename_label",
		Description: "Rename a point or detail and rewrite the formulas that use it",
	}, s.handleRenameLabel)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_increment",
		Description: "Add or replace an increment",
	}, s.handleSetIncrement)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "undo",
		Description: "Revert the last edit",
	}, s.handleUndo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redo",
		Description: "Re-apply the last reverted edit",
	}, s.handleRedo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve",
		Description: "Accept or revert an edit that broke recomputation",
	}, s.handleResolve)

	if s.ports.Drafting != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "save_drafting",
			Description: "Write the edited drafting back to the file it was loaded from",
		}, s.handleSave)
	}
}

// editResult turns a history call into tool output. A failed recomputation
// is reported in the outcome rather than as a tool error.
func (s *Server) editResult(outcome domain.RecomputeOutcome, err error) (*mcp.CallToolResult, EditOutput, error) {
	if err != nil && !errors.Is(err, domain.ErrRecomputeFailed) {
		return nil, EditOutput{}, err
	}
	state := s.ports.History.State()
	return nil, EditOutput{
		Outcome: toOutcomeOutput(outcome),
		Pending: state.Pending != nil,
		Undo:    state.Undo,
		Redo:    state.Redo,
	}, nil
}

func (s *Server) handleEditOperation(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EditOperationInput,
) (*mcp.CallToolResult, EditOutput, error) {
	if len(input.Fields) == 0 {
		return nil, EditOutput{}, errors.New("fields are required")
	}
	return s.editResult(s.ports.History.EditOperation(domain.ID(input.OperationID), input.Fields))
}

func (s *Server) handleProposeEdit(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EditOperationInput,
) (*mcp.CallToolResult, ProposeEditOutput, error) {
	preview, err := s.ports.History.ProposeEdit(domain.ID(input.OperationID), input.Fields)
	if err != nil {
		return nil, ProposeEditOutput{}, err
	}

	output := ProposeEditOutput{
		Operation: toOperationOutput(&preview.Operation),
		Outcome:   toOutcomeOutput(preview.Outcome),
		Entities:  make([]EntityOutput, len(preview.Entities)),
	}
	for i := range preview.Entities {
		output.Entities[i] = toEntityOutput(&preview.Entities[i])
	}
	return nil, output, nil
}

func (s *Server) handleRenameLabel(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RenameLabelInput,
) (*mcp.CallToolResult, EditOutput, error) {
	return s.editResult(s.ports.History.RenameLabel(input.Old, input.New))
}

func (s *Server) handleSetIncrement(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SetIncrementInput,
) (*mcp.CallToolResult, EditOutput, error) {
	return s.editResult(s.ports.History.SetIncrement(domain.Increment{
		Name:        input.Name,
		Formula:     input.Formula,
		Description: input.Description,
	}))
}

func (s *Server) handleUndo(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, EditOutput, error) {
	return s.editResult(s.ports.History.Undo())
}

func (s *Server) handleRedo(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, EditOutput, error) {
	return s.editResult(s.ports.History.Redo())
}

func (s *Server) handleResolve(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ResolveInput,
) (*mcp.CallToolResult, EditOutput, error) {
	r, err := parseResolution(input.Resolution)
	if err != nil {
		return nil, EditOutput{}, err
	}
	return s.editResult(s.ports.History.Resolve(r))
}

func parseResolution(s string) (domain.Resolution, error) {
	for _, r := range []domain.Resolution{domain.ResolveAccept, domain.ResolveRevert} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: resolution must be accept or revert, got %q", domain.ErrInvalidInput, s)
}

func (s *Server) handleSave(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, SaveOutput, error) {
	if err := s.ports.Drafting.Save(ctx, ""); err != nil {
		return nil, SaveOutput{}, fmt.Errorf("saving drafting: %w", err)
	}
	return nil, SaveOutput{Path: s.ports.Drafting.Path()}, nil
}
