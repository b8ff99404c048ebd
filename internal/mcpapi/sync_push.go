package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// SyncPushTool handles the manifold_sync_push tool.
type SyncPushTool struct {
	engine *engine.Engine
}

// NewSyncPushTool creates a SyncPushTool bound to eng.
func NewSyncPushTool(eng *engine.Engine) *SyncPushTool {
	return &SyncPushTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SyncPushTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_sync_push",
		mcp.WithDescription("Export, commit, and push one or more specs to a remote branch."),
		mcp.WithString("spec_ids", mcp.Required(), mcp.Description("Comma-separated spec ids to push")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Commit message")),
		mcp.WithString("remote", mcp.Description("Remote name (default: origin)")),
		mcp.WithString("branch", mcp.Description("Branch name (default: main)")),
	)
}

// Handle processes the manifold_sync_push tool call.
func (t *SyncPushTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targets := csvArg(req, "spec_ids")
	message := req.GetString("message", "")
	if len(targets) == 0 || message == "" {
		return mcp.NewToolResultError("'spec_ids' and 'message' are required"), nil
	}
	remote := req.GetString("remote", "origin")
	branch := req.GetString("branch", "main")

	results, err := t.engine.SyncPush(ctx, targets, message, remote, branch)
	if err != nil {
		return errorResult(err)
	}

	var b strings.Builder
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(&b, "- %s: FAILED (%s)\n", r.SpecID, r.Error)
			continue
		}
		fmt.Fprintf(&b, "- %s: pushed as %s\n", r.SpecID, r.CommitHash)
	}
	return mcp.NewToolResultText(b.String()), nil
}
