package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// ReviewRequestTool handles the manifold_review_request tool.
type ReviewRequestTool struct {
	engine *engine.Engine
}

// NewReviewRequestTool creates a ReviewRequestTool bound to eng.
func NewReviewRequestTool(eng *engine.Engine) *ReviewRequestTool {
	return &ReviewRequestTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ReviewRequestTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_review_request",
		mcp.WithDescription("Open a new pending review on a spec and return its id."),
		mcp.WithString("spec_id", mcp.Required(), mcp.Description("Spec id")),
		mcp.WithString("requester", mcp.Required(), mcp.Description("Identity requesting review")),
		mcp.WithString("reviewer", mcp.Required(), mcp.Description("Identity expected to approve or reject")),
	)
}

// Handle processes the manifold_review_request tool call.
func (t *ReviewRequestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	specID := req.GetString("spec_id", "")
	requester := req.GetString("requester", "")
	reviewer := req.GetString("reviewer", "")
	if specID == "" || requester == "" || reviewer == "" {
		return mcp.NewToolResultError("'spec_id', 'requester', and 'reviewer' are required"), nil
	}

	id, err := t.engine.ReviewRequest(ctx, specID, requester, reviewer)
	if err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Review %s requested from %s on spec %s.", id, reviewer, specID)), nil
}
