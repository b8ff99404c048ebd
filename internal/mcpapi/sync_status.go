package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// SyncStatusTool handles the manifold_sync_status tool.
type SyncStatusTool struct {
	engine *engine.Engine
}

// NewSyncStatusTool creates a SyncStatusTool bound to eng.
func NewSyncStatusTool(eng *engine.Engine) *SyncStatusTool {
	return &SyncStatusTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SyncStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_sync_status",
		mcp.WithDescription("Report every synced spec's sync state: clean, modified, or conflicted."),
	)
}

// Handle processes the manifold_sync_status tool call.
func (t *SyncStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses, err := t.engine.SyncStatus(ctx)
	if err != nil {
		return errorResult(err)
	}
	if len(statuses) == 0 {
		return mcp.NewToolResultText("No specs have been synced yet."), nil
	}

	var b strings.Builder
	for _, s := range statuses {
		fmt.Fprintf(&b, "- %s: %s (modified on disk: %t)\n", s.SpecID, s.Status, s.Modified)
	}
	return mcp.NewToolResultText(b.String()), nil
}
