package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// SyncInitTool handles the manifold_sync_init tool.
type SyncInitTool struct {
	engine *engine.Engine
}

// NewSyncInitTool creates a SyncInitTool bound to eng.
func NewSyncInitTool(eng *engine.Engine) *SyncInitTool {
	return &SyncInitTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SyncInitTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_sync_init",
		mcp.WithDescription("(Re-)initialize the git-backed export repository, optionally pointing it at a remote."),
		mcp.WithString("path", mcp.Description("Export repository path (informational; the engine's configured sync directory is authoritative)")),
		mcp.WithString("remote", mcp.Description("Remote URL to register as 'origin'")),
	)
}

// Handle processes the manifold_sync_init tool call.
func (t *SyncInitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	remote := req.GetString("remote", "")

	if err := t.engine.SyncInit(ctx, path, remote); err != nil {
		return errorResult(err)
	}
	if remote != "" {
		return mcp.NewToolResultText(fmt.Sprintf("Sync repository initialized with remote %q.", remote)), nil
	}
	return mcp.NewToolResultText("Sync repository initialized."), nil
}
