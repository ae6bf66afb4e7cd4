package commands

import (
	"github.com/spf13/cobra"

	"github.com/patrickkwang/bmt-lite/server"
	"github.com/patrickkwang/bmt-lite/version"
)

// MCPCmd serves taxonomy queries over the Model Context Protocol
var MCPCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve queries over the Model Context Protocol (stdio)",
	Long: `mcp — Serve queries over the Model Context Protocol

Runs an MCP server on stdin/stdout so agent frameworks can call
taxonomy tools (get_element, get_ancestors, resolve_identifier, ...)
directly. All logging goes to stderr; stdout carries only protocol
frames.

Example Claude Desktop configuration:
  {"mcpServers": {"bmt": {"command": "bmt", "args": ["mcp"]}}}`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	lm, err := loadToolkit(cmd)
	if err != nil {
		return err
	}

	s := server.NewMCPServer(lm.Toolkit, version.Get().Version)
	return s.Serve()
}
