package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/seamwork/drafter/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for drafter resources.
	uriScheme = "drafter://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "entities",
		Name:        "entities",
		Description: "Every entity of the open drafting in construction order",
		MIMEType:    "application/json",
	}, s.handleEntitiesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "operations",
		Name:        "operations",
		Description: "Construction operations of the open drafting",
		MIMEType:    "application/json",
	}, s.handleOperationsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "variables",
		Name:        "variables",
		Description: "Measurements, increments and derived variables available to formulas",
		MIMEType:    "application/json",
	}, s.handleVariablesResource)

	// Template for a single entity by label.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "entities/{label}",
		Name:        "entity",
		Description: "One entity of the open drafting",
		MIMEType:    "application/json",
	}, s.handleEntityResource)
}

// handleEntitiesResource returns every entity.
func (s *Server) handleEntitiesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entities, err := s.ports.Query.Entities()
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	infos := make([]EntityOutput, len(entities))
	for i := range entities {
		infos[i] = toEntityOutput(&entities[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleOperationsResource returns every operation.
func (s *Server) handleOperationsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ops, err := s.ports.Query.Operations()
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	infos := make([]OperationOutput, len(ops))
	for i := range ops {
		infos[i] = toOperationOutput(&ops[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleVariablesResource returns the formula namespace.
func (s *Server) handleVariablesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	vars, err := s.ports.Query.Variables()
	if err != nil {
		return nil, fmt.Errorf("listing variables: %w", err)
	}

	infos := make([]VariableOutput, len(vars))
	for i := range vars {
		infos[i] = toVariableOutput(&vars[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleEntityResource returns one entity by label.
func (s *Server) handleEntityResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract label from URI: drafter://entities/{label}
	label := extractEntityLabel(req.Params.URI)
	if label == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entity, err := s.ports.Query.EntityByLabel(label)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting entity: %w", err)
	}
	return jsonResult(req.Params.URI, toEntityOutput(&entity))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractEntityLabel extracts the label from a URI like drafter://entities/{label}.
func extractEntityLabel(uri string) string {
	const prefix = uriScheme + "entities/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	label := strings.TrimPrefix(uri, prefix)
	if strings.Contains(label, "/") {
		return ""
	}
	return label
}
