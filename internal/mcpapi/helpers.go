// Package mcpapi binds one mark3labs/mcp-go tool per internal/engine.Engine
// method, one file per tool: a struct holding the engine, a constructor, a
// Definition() describing the tool's arguments, and a Handle(ctx, req) that
// parses arguments, calls exactly one Engine method, and renders the result
// as text. No business logic lives here.
package mcpapi

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manifold-dev/manifold/internal/engine"
)

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a JSON number.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// csvArg splits a comma-separated string argument into its trimmed parts.
func csvArg(req mcp.CallToolRequest, key string) []string {
	raw := req.GetString(key, "")
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// errorResult renders err as a tool-level error result, prefixed with its
// engine.ErrorKind when recognized, so MCP clients can distinguish a
// not-found spec from a blocked precondition without parsing prose.
func errorResult(err error) (*mcp.CallToolResult, error) {
	kind := engine.Kind(err)
	if kind == engine.KindUnknown {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("[%s] %v", kindLabel(kind), err)), nil
}

func kindLabel(k engine.ErrorKind) string {
	switch k {
	case engine.KindNotFound:
		return "not_found"
	case engine.KindInvalid:
		return "invalid"
	case engine.KindPrecondition:
		return "precondition"
	case engine.KindMergeDeclined:
		return "merge_declined"
	case engine.KindManualValueRequired:
		return "manual_value_required"
	case engine.KindRemoteFailure:
		return "remote_failure"
	case engine.KindStoreLocked:
		return "store_locked"
	case engine.KindIoFailure:
		return "io_failure"
	case engine.KindCancelled:
		return "cancelled"
	case engine.KindPermission:
		return "permission"
	default:
		return "unknown"
	}
}
