package mcpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
	"github.com/manifold-dev/manifold/internal/spec"
	"github.com/manifold-dev/manifold/internal/store"
)

// SpecListTool handles the manifold_spec_list tool.
type SpecListTool struct {
	engine *engine.Engine
}

// NewSpecListTool creates a SpecListTool bound to eng.
func NewSpecListTool(eng *engine.Engine) *SpecListTool {
	return &SpecListTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SpecListTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_spec_list",
		mcp.WithDescription("List spec summaries, optionally filtered by project, boundary, or stage."),
		mcp.WithString("project", mcp.Description("Filter by project")),
		mcp.WithString("boundary", mcp.Description("Filter by boundary")),
		mcp.WithString("stage", mcp.Description("Filter by stage")),
	)
}

// Handle processes the manifold_spec_list tool call.
func (t *SpecListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := store.Filter{
		Project:  req.GetString("project", ""),
		Boundary: spec.Boundary(req.GetString("boundary", "")),
		Stage:    spec.Stage(req.GetString("stage", "")),
	}

	summaries, err := t.engine.ListSpecs(ctx, f)
	if err != nil {
		return errorResult(err)
	}
	if len(summaries) == 0 {
		return mcp.NewToolResultText("No specs match that filter."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d spec(s):\n\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(&b, "- %s | %s (%s/%s) — %s, updated %d\n", s.SpecID, s.Name, s.Project, s.Boundary, s.Stage, s.UpdatedAt)
	}
	return mcp.NewToolResultText(b.String()), nil
}
