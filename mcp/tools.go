// Package mcp exposes clone detection as Model Context Protocol tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all dupscan MCP tools with the server.
func RegisterTools(s *server.MCPServer) {
	handlers := NewHandlerSet()

	s.AddTool(mcp.NewTool("detect_clones",
		mcp.WithDescription("Detect code clones (Type-1 identical, Type-2 renamed, Type-3 near-miss) in Python and Java sources"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to source code (file or directory) to analyze")),
		mcp.WithNumber("threshold",
			mcp.Description("Minimum similarity percentage for Type-3 clones, 0-100 (default: 70)")),
		mcp.WithNumber("sensitivity",
			mcp.Description("Detection sensitivity 1-10, lower relaxes thresholds to report more clones (default: 10)")),
		mcp.WithNumber("min_lines",
			mcp.Description("Minimum fragment line count (default: 3)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
	), handlers.HandleDetectClones)

	s.AddTool(mcp.NewTool("list_languages",
		mcp.WithDescription("List the source languages and file extensions dupscan can analyze"),
	), handlers.HandleListLanguages)
}
