package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// SpecValidateTool handles the manifold_spec_validate tool.
type SpecValidateTool struct {
	engine *engine.Engine
}

// NewSpecValidateTool creates a SpecValidateTool bound to eng.
func NewSpecValidateTool(eng *engine.Engine) *SpecValidateTool {
	return &SpecValidateTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SpecValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_spec_validate",
		mcp.WithDescription("Validate a spec's structure, optionally adding the stage-gated semantic checks too."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
		mcp.WithBoolean("strict", mcp.Description("Also require SHALL statements from design on and linked tasks from tasks on (default: false)")),
	)
}

// Handle processes the manifold_spec_validate tool call.
func (t *SpecValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("spec_id", "")
	if id == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}
	strict := boolArg(req, "strict", false)

	sp, err := t.engine.GetSpec(ctx, id)
	if err != nil {
		return errorResult(err)
	}

	violations := t.engine.ValidateSpec(sp, strict)
	if len(violations) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Spec %s passes validation.", id)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Spec %s has %d violation(s):\n\n", id, len(violations))
	for _, v := range violations {
		fmt.Fprintf(&b, "- %s\n", v.Error())
	}
	return mcp.NewToolResultText(b.String()), nil
}
