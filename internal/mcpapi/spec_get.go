package mcpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
	"github.com/manifold-dev/manifold/internal/markdown"
)

// SpecGetTool handles the manifold_spec_get tool.
type SpecGetTool struct {
	engine *engine.Engine
}

// NewSpecGetTool creates a SpecGetTool bound to eng.
func NewSpecGetTool(eng *engine.Engine) *SpecGetTool {
	return &SpecGetTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SpecGetTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_spec_get",
		mcp.WithDescription("Fetch a spec by id, rendered as JSON or Markdown."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
		mcp.WithString("format", mcp.Description("Output format: json (default) or md")),
	)
}

// Handle processes the manifold_spec_get tool call.
func (t *SpecGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("spec_id", "")
	if id == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}

	sp, err := t.engine.GetSpec(ctx, id)
	if err != nil {
		return errorResult(err)
	}

	if req.GetString("format", "json") == "md" {
		out, err := markdown.Render(sp)
		if err != nil {
			return nil, fmt.Errorf("rendering markdown: %w", err)
		}
		return mcp.NewToolResultText(out), nil
	}

	data, err := json.MarshalIndent(sp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling spec: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
