package mcp

import (
	"github.com/seamwork/drafter/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query reads the recomputed drafting.
	Query driving.QueryService

	// History edits the drafting. Editing tools are only registered when set.
	History driving.HistoryService

	// Drafting saves edits back to the drafting file. Optional.
	Drafting driving.DraftingService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
