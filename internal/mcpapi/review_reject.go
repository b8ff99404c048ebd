package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// ReviewRejectTool handles the manifold_review_reject tool.
type ReviewRejectTool struct {
	engine *engine.Engine
}

// NewReviewRejectTool creates a ReviewRejectTool bound to eng.
func NewReviewRejectTool(eng *engine.Engine) *ReviewRejectTool {
	return &ReviewRejectTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ReviewRejectTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_review_reject",
		mcp.WithDescription("Reject a pending review with a required comment. The calling actor must match the review's reviewer."),
		mcp.WithString("review_id", mcp.Required(), mcp.Description("Review id")),
		mcp.WithString("actor", mcp.Required(), mcp.Description("Calling identity; must equal the review's reviewer")),
		mcp.WithString("comment", mcp.Required(), mcp.Description("Reason for rejection")),
	)
}

// Handle processes the manifold_review_reject tool call.
func (t *ReviewRejectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("review_id", "")
	actor := req.GetString("actor", "")
	comment := req.GetString("comment", "")
	if id == "" || actor == "" || comment == "" {
		return mcp.NewToolResultError("'review_id', 'actor', and 'comment' are required"), nil
	}

	ctx = engine.WithActor(ctx, actor)
	if err := t.engine.ReviewReject(ctx, id, comment); err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Review %s rejected by %s.", id, actor)), nil
}
