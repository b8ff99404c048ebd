package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// ConflictsResolveTool handles the manifold_conflicts_resolve tool.
type ConflictsResolveTool struct {
	engine *engine.Engine
}

// NewConflictsResolveTool creates a ConflictsResolveTool bound to eng.
func NewConflictsResolveTool(eng *engine.Engine) *ConflictsResolveTool {
	return &ConflictsResolveTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ConflictsResolveTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_conflicts_resolve",
		mcp.WithDescription("Settle a single conflict by id under a named strategy: ours, theirs, manual, or merge."),
		mcp.WithString("conflict_id", mcp.Required(), mcp.Description("Conflict id")),
		mcp.WithString("strategy", mcp.Required(), mcp.Description("ours, theirs, manual, or merge")),
		mcp.WithString("manual_value", mcp.Description("The value to apply when strategy is 'manual'")),
	)
}

// Handle processes the manifold_conflicts_resolve tool call.
func (t *ConflictsResolveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("conflict_id", "")
	strategy := req.GetString("strategy", "")
	if id == "" || strategy == "" {
		return mcp.NewToolResultError("'conflict_id' and 'strategy' are required"), nil
	}
	manual := req.GetString("manual_value", "")

	if err := t.engine.ConflictsResolve(ctx, id, strategy, manual); err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Conflict %s resolved via %s.", id, strategy)), nil
}
