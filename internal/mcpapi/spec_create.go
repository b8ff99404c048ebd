package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
	"github.com/manifold-dev/manifold/internal/spec"
)

// SpecCreateTool handles the manifold_spec_create tool.
type SpecCreateTool struct {
	engine *engine.Engine
}

// NewSpecCreateTool creates a SpecCreateTool bound to eng.
func NewSpecCreateTool(eng *engine.Engine) *SpecCreateTool {
	return &SpecCreateTool{engine: eng}
}

// Definition returns the MCP tool definition for registration.
func (t *SpecCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("manifold_spec_create",
		mcp.WithDescription("Create a new spec at the requirements stage and return its generated id."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project the spec belongs to")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Human-readable spec name")),
		mcp.WithString("description", mcp.Description("Display description for the spec")),
		mcp.WithString("boundary", mcp.Description("Sharing boundary: personal (default), work, or company")),
	)
}

// Handle processes the manifold_spec_create tool call.
func (t *SpecCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	name := req.GetString("name", "")
	if project == "" || name == "" {
		return mcp.NewToolResultError("'project' and 'name' are required"), nil
	}
	description := req.GetString("description", "")
	boundary := spec.Boundary(req.GetString("boundary", string(spec.BoundaryPersonal)))

	id, err := t.engine.CreateSpec(ctx, project, name, description, boundary)
	if err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created spec %s in project %q at stage requirements.", id, project)), nil
}
