package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// WorkflowHistoryTool handles the manifold_workflow_history tool.
type WorkflowHistoryTool struct {
	engine *engine.Engine
}

// NewWorkflowHistoryTool creates a WorkflowHistoryTool bound to eng.
func NewWorkflowHistoryTool(eng *engine.Engine) *WorkflowHistoryTool {
	return &WorkflowHistoryTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *WorkflowHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_workflow_history",
		mcp.WithDescription("Return the journaled stage transitions for a spec."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
	)
}

// Handle processes the manifold_workflow_history tool call.
func (t *WorkflowHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("spec_id", "")
	if id == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}

	events, err := t.engine.WorkflowHistory(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	if len(events) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Spec %s has no journaled transitions yet.", id)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Spec %s transitions:\n\n", id)
	for _, e := range events {
		fmt.Fprintf(&b, "- [%d] %s by %s -> %s", e.Timestamp, e.Event, e.Actor, e.Stage)
		if e.Details != "" {
			fmt.Fprintf(&b, " (%s)", e.Details)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
