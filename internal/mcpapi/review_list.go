package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
	"github.com/manifold-dev/manifold/internal/review"
	"github.com/manifold-dev/manifold/internal/spec"
)

// ReviewListTool handles the manifold_review_list tool.
type ReviewListTool struct {
	engine *engine.Engine
}

// NewReviewListTool creates a ReviewListTool bound to eng.
func NewReviewListTool(eng *engine.Engine) *ReviewListTool {
	return &ReviewListTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *ReviewListTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_review_list",
		mcp.WithDescription("List reviews, optionally filtered by spec, reviewer, or status."),
		mcp.WithString("spec_id", mcp.Description("Filter by spec id")),
		mcp.WithString("reviewer", mcp.Description("Filter by reviewer identity")),
		mcp.WithString("status", mcp.Description("Filter by status: pending, approved, rejected, cancelled")),
	)
}

// Handle processes the manifold_review_list tool call.
func (t *ReviewListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := review.Filter{
		SpecID:   req.GetString("spec_id", ""),
		Reviewer: req.GetString("reviewer", ""),
		Status:   spec.ReviewStatus(req.GetString("status", "")),
	}

	reviews, err := t.engine.ReviewList(ctx, f)
	if err != nil {
		return errorResult(err)
	}
	if len(reviews) == 0 {
		return mcp.NewToolResultText("No reviews match that filter."), nil
	}

	var b strings.Builder
	for _, r := range reviews {
		fmt.Fprintf(&b, "- %s on %s: %s -> %s [%s]", r.ID, r.SpecID, r.Requester, r.Reviewer, r.Status)
		if r.Comment != "" {
			fmt.Fprintf(&b, " (%s)", r.Comment)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
