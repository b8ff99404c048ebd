package mcpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
	"github.com/manifold-dev/manifold/internal/spec"
)

// SpecPutTool handles the manifold_spec_put tool.
type SpecPutTool struct {
	engine *engine.Engine
}

// NewSpecPutTool creates a SpecPutTool bound to eng.
func NewSpecPutTool(eng *engine.Engine) *SpecPutTool {
	return &SpecPutTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SpecPutTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_spec_put",
		mcp.WithDescription("Replace a spec's full document with a validated, schema-checked revision."),
		mcp.WithString("spec", mcp.Required(), mcp.Description("The full spec document, as JSON")),
		mcp.WithString("actor", mcp.Required(), mcp.Description("Identity recorded against the resulting patch-log entry")),
	)
}

// Handle processes the manifold_spec_put tool call.
func (t *SpecPutTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("spec", "")
	actor := req.GetString("actor", "")
	if raw == "" || actor == "" {
		return mcp.NewToolResultError("'spec' and 'actor' are required"), nil
	}

	var sp spec.Spec
	if err := json.Unmarshal([]byte(raw), &sp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'spec' is not valid JSON: %v", err)), nil
	}

	if err := t.engine.PutSpec(ctx, &sp, actor); err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Spec %s updated by %s.", sp.SpecID, actor)), nil
}
