package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// ReviewCancelTool handles the manifold_review_cancel tool.
type ReviewCancelTool struct {
	engine *engine.Engine
}

// NewReviewCancelTool creates a ReviewCancelTool bound to eng.
func NewReviewCancelTool(eng *engine.Engine) *ReviewCancelTool {
	return &ReviewCancelTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ReviewCancelTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_review_cancel",
		mcp.WithDescription("Cancel a pending review. The calling actor must match the review's requester."),
		mcp.WithString("review_id", mcp.Required(), mcp.Description("Review id")),
		mcp.WithString("actor", mcp.Required(), mcp.Description("Calling identity; must equal the review's requester")),
	)
}

// Handle processes the manifold_review_cancel tool call.
func (t *ReviewCancelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("review_id", "")
	actor := req.GetString("actor", "")
	if id == "" || actor == "" {
		return mcp.NewToolResultError("'review_id' and 'actor' are required"), nil
	}

	ctx = engine.WithActor(ctx, actor)
	if err := t.engine.ReviewCancel(ctx, id); err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Review %s cancelled by %s.", id, actor)), nil
}
