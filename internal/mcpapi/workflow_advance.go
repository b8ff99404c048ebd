package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// WorkflowAdvanceTool handles the manifold_workflow_advance tool.
type WorkflowAdvanceTool struct {
	engine *engine.Engine
}

// NewWorkflowAdvanceTool creates a WorkflowAdvanceTool bound to eng.
func NewWorkflowAdvanceTool(eng *engine.Engine) *WorkflowAdvanceTool {
	return &WorkflowAdvanceTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *WorkflowAdvanceTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_workflow_advance",
		mcp.WithDescription(
			"Move a spec to its next workflow stage. Fails only if the stage's own "+
				"precondition is unmet; a pending review never blocks the move to implemented.",
		),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
		mcp.WithString("actor", mcp.Required(), mcp.Description("Identity journaled against the transition")),
	)
}

// Handle processes the manifold_workflow_advance tool call.
func (t *WorkflowAdvanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("spec_id", "")
	actor := req.GetString("actor", "")
	if id == "" || actor == "" {
		return mcp.NewToolResultError("'spec_id' and 'actor' are required"), nil
	}

	if err := t.engine.WorkflowAdvance(ctx, id, actor); err != nil {
		return errorResult(err)
	}

	stage, err := t.engine.WorkflowStatus(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Spec %s advanced to stage %s.", id, stage)), nil
}
