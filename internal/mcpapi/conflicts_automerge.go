package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// ConflictsAutoMergeTool handles the manifold_conflicts_automerge tool.
type ConflictsAutoMergeTool struct {
	engine *engine.Engine
}

// NewConflictsAutoMergeTool creates a ConflictsAutoMergeTool bound to eng.
func NewConflictsAutoMergeTool(eng *engine.Engine) *ConflictsAutoMergeTool {
	return &ConflictsAutoMergeTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ConflictsAutoMergeTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_conflicts_automerge",
		mcp.WithDescription(
			"Attempt to auto-merge every unresolved conflict for a spec, leaving "+
				"declined conflicts unresolved for manual handling.",
		),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
	)
}

// Handle processes the manifold_conflicts_automerge tool call.
func (t *ConflictsAutoMergeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("spec_id", "")
	if id == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}

	result, err := t.engine.ConflictsAutoMerge(ctx, id)
	if err != nil {
		return errorResult(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Merged %d, declined %d.\n", len(result.Merged), len(result.Declined))
	for cid, reason := range result.Declined {
		fmt.Fprintf(&b, "- %s: %s\n", cid, reason)
	}
	return mcp.NewToolResultText(b.String()), nil
}
