package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// ConflictsListTool handles the manifold_conflicts_list tool.
type ConflictsListTool struct {
	engine *engine.Engine
}

// NewConflictsListTool creates a ConflictsListTool bound to eng.
func NewConflictsListTool(eng *engine.Engine) *ConflictsListTool {
	return &ConflictsListTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ConflictsListTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_conflicts_list",
		mcp.WithDescription("List every recorded conflict for a spec."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
	)
}

// Handle processes the manifold_conflicts_list tool call.
func (t *ConflictsListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("spec_id", "")
	if id == "" {
		return mcp.NewToolResultError("'spec_id' is required"), nil
	}

	conflicts, err := t.engine.ConflictsList(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	if len(conflicts) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Spec %s has no recorded conflicts.", id)), nil
	}

	var b strings.Builder
	for _, c := range conflicts {
		fmt.Fprintf(&b, "- %s @ %s [%s]\n    local:  %v\n    remote: %v\n    base:   %v\n",
			c.ID, c.FieldPath, c.Status, c.LocalValue, c.RemoteValue, c.BaseValue)
	}
	return mcp.NewToolResultText(b.String()), nil
}
