package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seamwork/drafter/internal/adapters/driving/mcp"
)

var mcpEdit bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Start the MCP server for a drafting",
	Long: `Load a drafting and start the Model Context Protocol server so AI
assistants can inspect its entities, operations and variables.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Use --edit to also expose editing tools (edit_operation, rename_label,
set_increment, undo, redo, resolve, save_drafting).

Examples:
  # Stdio mode (default, for Claude Desktop)
  drafter mcp serve bodice.xml

  # HTTP mode with editing (for MCP Inspector, remote access)
  drafter mcp serve bodice.xml --port 8080 --edit

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "drafter": {
        "command": "/path/to/drafter",
        "args": ["mcp", "serve", "/path/to/bodice.xml"]
      }
    }
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().BoolVar(&mcpEdit, "edit", false, "expose editing tools")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := newMCPServer()
	if err != nil {
		return err
	}
	if _, err := load(cmd, args[0]); err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}

func newMCPServer() (*mcp.Server, error) {
	ports := &mcp.Ports{
		Query: queryService,
	}
	if mcpEdit {
		ports.History = historyService
		ports.Drafting = draftingService
	}
	return mcp.NewServer(ports)
}
