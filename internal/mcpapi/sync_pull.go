package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// SyncPullTool handles the manifold_sync_pull tool.
type SyncPullTool struct {
	engine *engine.Engine
}

// NewSyncPullTool creates a SyncPullTool bound to eng.
func NewSyncPullTool(eng *engine.Engine) *SyncPullTool {
	return &SyncPullTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SyncPullTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_sync_pull",
		mcp.WithDescription(
			"Pull one or more specs from a remote branch, running the conflict detector "+
				"against the retained base when local and remote have diverged.",
		),
		mcp.WithString("spec_ids", mcp.Required(), mcp.Description("Comma-separated spec ids to pull")),
		mcp.WithString("remote", mcp.Description("Remote name (default: origin)")),
		mcp.WithString("branch", mcp.Description("Branch name (default: main)")),
	)
}

// Handle processes the manifold_sync_pull tool call.
func (t *SyncPullTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targets := csvArg(req, "spec_ids")
	if len(targets) == 0 {
		return mcp.NewToolResultError("'spec_ids' is required"), nil
	}
	remote := req.GetString("remote", "origin")
	branch := req.GetString("branch", "main")

	results, err := t.engine.SyncPull(ctx, targets, remote, branch)
	if err != nil {
		return errorResult(err)
	}

	var b strings.Builder
	for _, r := range results {
		switch {
		case r.Error != "":
			fmt.Fprintf(&b, "- %s: FAILED (%s)\n", r.SpecID, r.Error)
		case r.Conflicted:
			fmt.Fprintf(&b, "- %s: CONFLICT — run manifold_conflicts_list to inspect\n", r.SpecID)
		default:
			fmt.Fprintf(&b, "- %s: pulled cleanly\n", r.SpecID)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
