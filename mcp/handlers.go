package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dupscan/dupscan/domain"
	"github.com/dupscan/dupscan/internal/constants"
	"github.com/dupscan/dupscan/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	service domain.CloneService
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet() *HandlerSet {
	return &HandlerSet{service: service.NewCloneService()}
}

// HandleDetectClones handles the detect_clones tool.
func (h *HandlerSet) HandleDetectClones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := domain.DefaultCloneRequest()
	req.Paths = []string{path}
	req.OutputFormat = domain.OutputFormatJSON

	if t, ok := args["threshold"].(float64); ok {
		req.Config.Threshold = t
	}
	if s, ok := args["sensitivity"].(float64); ok {
		req.Config.Sensitivity = int(s)
	}
	if ml, ok := args["min_lines"].(float64); ok {
		req.Config.MinFragmentLines = int(ml)
	}
	if r, ok := args["recursive"].(bool); ok {
		req.Recursive = r
	}

	response, err := h.service.DetectClones(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clone detection failed: %v", err)), nil
	}

	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// HandleListLanguages handles the list_languages tool.
func (h *HandlerSet) HandleListLanguages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := map[string]interface{}{
		"languages":   []string{string(domain.LanguagePython), string(domain.LanguageJava)},
		"extensions":  domain.SupportedExtensions(),
		"clone_types": constants.CloneTypeDescriptions,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
