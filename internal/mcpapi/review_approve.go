package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// ReviewApproveTool handles the manifold_review_approve tool.
type ReviewApproveTool struct {
	engine *engine.Engine
}

// NewReviewApproveTool creates a ReviewApproveTool bound to eng.
func NewReviewApproveTool(eng *engine.Engine) *ReviewApproveTool {
	return &ReviewApproveTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ReviewApproveTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_review_approve",
		mcp.WithDescription("Approve a pending review. The calling actor must match the review's reviewer."),
		mcp.WithString("review_id", mcp.Required(), mcp.Description("Review id")),
		mcp.WithString("actor", mcp.Required(), mcp.Description("Calling identity; must equal the review's reviewer")),
		mcp.WithString("comment", mcp.Description("Optional approval comment")),
	)
}

// Handle processes the manifold_review_approve tool call.
func (t *ReviewApproveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("review_id", "")
	actor := req.GetString("actor", "")
	if id == "" || actor == "" {
		return mcp.NewToolResultError("'review_id' and 'actor' are required"), nil
	}
	comment := req.GetString("comment", "")

	ctx = engine.WithActor(ctx, actor)
	if err := t.engine.ReviewApprove(ctx, id, comment); err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Review %s approved by %s.", id, actor)), nil
}
