package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manifold-dev/manifold/internal/patch"
	"github.com/manifold-dev/manifold/internal/spec"
)

// actorKey is the context key an MCP/CLI transport stores the resolved
// caller identity under before invoking a review operation.
type actorKey struct{}

// WithActor attaches the calling identity to ctx for review operations.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the identity WithActor attached, or "" if none.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

func decodeSpec(data []byte, out *spec.Spec) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("engine: decoding spec: %w", err)
	}
	return nil
}

// applyFieldValue writes a resolved conflict value back into sp at path,
// which is either a bare top-level field name ("name") or an id-keyed
// array entry path ("requirements/req-1") as produced by the Conflict
// Detector — not an RFC 6901 pointer, since conflicts are always
// one-level or two-level paths into the Spec document.
func applyFieldValue(sp *spec.Spec, path string, value any) error {
	doc, err := patch.Canonicalize(sp)
	if err != nil {
		return fmt.Errorf("canonicalizing spec: %w", err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("spec did not canonicalize to an object")
	}

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 1 {
		if value == nil {
			delete(m, parts[0])
		} else {
			m[parts[0]] = value
		}
	} else {
		field, id := parts[0], parts[1]
		if err := applyArrayEntry(m, field, id, value); err != nil {
			return err
		}
	}

	return patch.Decode(m, sp)
}

func applyArrayEntry(m map[string]any, field, id string, value any) error {
	arr, _ := m[field].([]any)

	idx := -1
	for i, el := range arr {
		entry, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if entry["id"] == id {
			idx = i
			break
		}
	}

	switch {
	case value == nil && idx >= 0:
		m[field] = append(arr[:idx], arr[idx+1:]...)
	case value == nil:
		// already absent; nothing to do
	case idx >= 0:
		arr[idx] = value
		m[field] = arr
	default:
		m[field] = append(arr, value)
	}
	return nil
}
