package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/patrickkwang/bmt-lite/taxonomy"
)

// MCPServer exposes taxonomy queries as Model Context Protocol tools
// over stdio, for agent integrations.
type MCPServer struct {
	toolkit *taxonomy.Toolkit
	server  *mcpserver.MCPServer
}

// NewMCPServer creates an MCP server over a loaded toolkit.
func NewMCPServer(toolkit *taxonomy.Toolkit, version string) *MCPServer {
	s := &MCPServer{toolkit: toolkit}

	// Create MCP server with tool capabilities
	s.server = mcpserver.NewMCPServer(
		"bmt",
		version,
		mcpserver.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// registerTools registers all MCP tools for taxonomy operations
func (s *MCPServer) registerTools() {
	getElementTool := mcp.NewTool("get_element",
		mcp.WithDescription("Get the full property document of a taxonomy element by name"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Element name, e.g. \"affects\" or \"named thing\""),
		),
	)
	s.server.AddTool(getElementTool, s.handleGetElement)

	getAncestorsTool := mcp.NewTool("get_ancestors",
		mcp.WithDescription("List the ancestors of an element, nearest first"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Element name"),
		),
	)
	s.server.AddTool(getAncestorsTool, s.handleGetAncestors)

	getDescendantsTool := mcp.NewTool("get_descendants",
		mcp.WithDescription("List the subtree below an element in depth-first order"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Element name; an empty string lists the whole forest"),
		),
	)
	s.server.AddTool(getDescendantsTool, s.handleGetDescendants)

	getChildrenTool := mcp.NewTool("get_children",
		mcp.WithDescription("List the direct children of an element"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Element name; an empty string lists the roots"),
		),
	)
	s.server.AddTool(getChildrenTool, s.handleGetChildren)

	resolveTool := mcp.NewTool("resolve_identifier",
		mcp.WithDescription("Resolve an external identifier (CURIE) to the single element its claimants agree on"),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("External identifier, e.g. \"RO:0002410\""),
		),
	)
	s.server.AddTool(resolveTool, s.handleResolveIdentifier)

	findTool := mcp.NewTool("find_by_identifier",
		mcp.WithDescription("List every element claiming an external identifier in its mappings"),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("External identifier, e.g. \"SEMMEDDB:CAUSES\""),
		),
	)
	s.server.AddTool(findTool, s.handleFindByIdentifier)
}

// handleGetElement handles get_element tool calls
func (s *MCPServer) handleGetElement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	el := s.toolkit.Element(name)
	if el == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No element named %q", name)), nil
	}

	doc, err := json.MarshalIndent(el.Document(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode element: %v", err)), nil
	}

	return mcp.NewToolResultText(string(doc)), nil
}

// handleGetAncestors handles get_ancestors tool calls
func (s *MCPServer) handleGetAncestors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ancestors := s.toolkit.Ancestors(name)
	if len(ancestors) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%q has no ancestors", name)), nil
	}

	return mcp.NewToolResultText(formatNameList("ancestor", ancestors)), nil
}

// handleGetDescendants handles get_descendants tool calls
func (s *MCPServer) handleGetDescendants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	descendants := s.toolkit.Descendants(name)
	if len(descendants) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%q has no descendants", name)), nil
	}

	return mcp.NewToolResultText(formatNameList("descendant", descendants)), nil
}

// handleGetChildren handles get_children tool calls
func (s *MCPServer) handleGetChildren(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	children := s.toolkit.Children(name)
	if len(children) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%q has no children", name)), nil
	}

	return mcp.NewToolResultText(formatNameList("child", children)), nil
}

// handleResolveIdentifier handles resolve_identifier tool calls
func (s *MCPServer) handleResolveIdentifier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := request.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	element, ok := s.toolkit.ResolveMapping(identifier)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("%q does not resolve to any element", identifier)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%q resolves to %q", identifier, element)), nil
}

// handleFindByIdentifier handles find_by_identifier tool calls
func (s *MCPServer) handleFindByIdentifier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := request.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	elements := s.toolkit.ElementsByMapping(identifier)
	if len(elements) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No element claims %q", identifier)), nil
	}

	return mcp.NewToolResultText(formatNameList("element", elements)), nil
}

// formatNameList renders a numbered name list
func formatNameList(noun string, names []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s(s):\n", len(names), noun)
	for i, name := range names {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return b.String()
}

// Serve runs the MCP server over stdio, blocking until the peer
// disconnects
func (s *MCPServer) Serve() error {
	return mcpserver.ServeStdio(s.server)
}
