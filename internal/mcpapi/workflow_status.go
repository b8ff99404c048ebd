package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// WorkflowStatusTool handles the manifold_workflow_status tool.
type WorkflowStatusTool struct {
	engine *engine.Engine
}

// NewWorkflowStatusTool creates a WorkflowStatusTool bound to eng.
func NewWorkflowStatusTool(eng *engine.Engine) *WorkflowStatusTool {
	return &WorkflowStatusTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *WorkflowStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_workflow_status",
		mcp.WithDescription("Return a spec's current workflow stage."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
	)
}

// Handle processes the manifold_workflow_status tool call.
func (t *WorkflowStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("spec_id", "")
	if id == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}

	stage, err := t.engine.WorkflowStatus(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Spec %s is at stage %s.", id, stage)), nil
}
