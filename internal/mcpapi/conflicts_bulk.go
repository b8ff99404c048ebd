package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// ConflictsBulkTool handles the manifold_conflicts_bulk tool.
type ConflictsBulkTool struct {
	engine *engine.Engine
}

// NewConflictsBulkTool creates a ConflictsBulkTool bound to eng.
func NewConflictsBulkTool(eng *engine.Engine) *ConflictsBulkTool {
	return &ConflictsBulkTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ConflictsBulkTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_conflicts_bulk",
		mcp.WithDescription("Resolve every unresolved conflict for a spec under one uniform strategy."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
		mcp.WithString("strategy", mcp.Required(), mcp.Description("ours, theirs, or merge")),
	)
}

// Handle processes the manifold_conflicts_bulk tool call.
func (t *ConflictsBulkTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("spec_id", "")
	strategy := req.GetString("strategy", "")
	if id == "" || strategy == "" {
		return mcp.NewToolResultError("'spec_id' and 'strategy' are required"), nil
	}

	result, err := t.engine.ConflictsBulk(ctx, id, strategy)
	if err != nil {
		return errorResult(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resolved %d, failed %d.\n", len(result.Resolved), len(result.Failed))
	for cid, reason := range result.Failed {
		fmt.Fprintf(&b, "- %s: %s\n", cid, reason)
	}
	return mcp.NewToolResultText(b.String()), nil
}
