package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamwork/drafter/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	edit := mcpServeCmd.Flags().Lookup("edit")
	require.NotNil(t, edit)
	assert.Equal(t, "false", edit.DefValue)
}

func TestNewMCPServer(t *testing.T) {
	setupTestServices(t)

	server, err := newMCPServer()
	require.NoError(t, err)
	assert.NotNil(t, server)

	mcpEdit = true
	t.Cleanup(func() { mcpEdit = false })
	server, err = newMCPServer()
	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestNewMCPServer_RequiresQueryService(t *testing.T) {
	SetServices(&Services{})

	_, err := newMCPServer()

	assert.ErrorIs(t, err, mcp.ErrMissingQueryService)
}

func TestMCPServeCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "mcp", "serve", "does-not-exist.xml")

	assert.Error(t, err)
}
