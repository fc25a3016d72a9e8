// Package mcp provides an MCP (Model Context Protocol) server adapter for drafter.
// It lets AI assistants inspect the open drafting and, when an edit history
// is supplied, edit it.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
