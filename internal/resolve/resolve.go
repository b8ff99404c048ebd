// Package resolve implements the four conflict resolution strategies —
// keep local ("ours"), keep remote ("theirs"), accept an externally
// supplied value ("manual"), and attempt an automatic structural merge
// ("merge") — plus the bulk and auto-merge-all operations built on them.
//
// Bulk operations follow a best-effort iteration style: partial results,
// no whole-batch rollback, following an explicit per-item-transaction contract:
// one conflict's resolution failure never blocks the rest.
package resolve

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/manifold-dev/manifold/internal/spec"
)

// Resolve returns the value a single Conflict should take on under the
// given strategy. manualValue is only consulted for ResolveManual.
func Resolve(c spec.Conflict, strategy spec.ResolutionStrategy, manualValue any) (any, error) {
	switch strategy {
	case spec.ResolveOurs:
		return c.LocalValue, nil
	case spec.ResolveTheirs:
		return c.RemoteValue, nil
	case spec.ResolveManual:
		if manualValue == nil {
			return nil, fmt.Errorf("resolve: manual resolution requires a value for conflict %q", c.ID)
		}
		return manualValue, nil
	case spec.ResolveMerge:
		return AutoMerge(c)
	default:
		return nil, fmt.Errorf("resolve: unknown strategy %q", strategy)
	}
}

// AutoMerge attempts a structural merge of a single conflict's local and
// remote values without operator input. It succeeds for maps (recursive
// field merge), arrays (union), and prefix-related strings; it declines
// — returning an error rather than guessing — for any other scalar
// disagreement or a delete-vs-modify conflict (one side nil).
func AutoMerge(c spec.Conflict) (any, error) {
	if c.LocalValue == nil || c.RemoteValue == nil {
		return nil, fmt.Errorf("resolve: conflict %q is a delete-vs-modify conflict; merge cannot auto-resolve a deletion", c.ID)
	}
	return mergeValue(c.FieldPath, c.LocalValue, c.RemoteValue)
}

func mergeValue(path string, local, remote any) (any, error) {
	if reflect.DeepEqual(local, remote) {
		return local, nil
	}

	if lm, ok := local.(map[string]any); ok {
		if rm, ok := remote.(map[string]any); ok {
			return mergeMap(path, lm, rm)
		}
	}

	if la, ok := local.([]any); ok {
		if ra, ok := remote.([]any); ok {
			return mergeArray(la, ra), nil
		}
	}

	if ls, ok := local.(string); ok {
		if rs, ok := remote.(string); ok {
			if strings.HasPrefix(rs, ls) {
				return rs, nil
			}
			if strings.HasPrefix(ls, rs) {
				return ls, nil
			}
		}
	}

	return nil, fmt.Errorf("resolve: cannot auto-merge divergent values at %q without operator input", path)
}

func mergeMap(path string, local, remote map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(local)+len(remote))
	for k, v := range local {
		out[k] = v
	}
	for k, rv := range remote {
		lv, existed := local[k]
		if !existed {
			out[k] = rv
			continue
		}
		merged, err := mergeValue(path+"/"+k, lv, rv)
		if err != nil {
			return nil, err
		}
		out[k] = merged
	}
	return out, nil
}

// mergeArray unions two arrays, deduplicating by id for id-keyed element
// arrays and by deep equality otherwise, preserving local's order first.
func mergeArray(local, remote []any) []any {
	if isIDKeyed(local) || isIDKeyed(remote) {
		byID := make(map[string]any, len(local)+len(remote))
		var order []string
		for _, el := range local {
			if m, ok := el.(map[string]any); ok {
				if id, ok := m["id"].(string); ok {
					if _, seen := byID[id]; !seen {
						order = append(order, id)
					}
					byID[id] = el
					continue
				}
			}
		}
		for _, el := range remote {
			if m, ok := el.(map[string]any); ok {
				if id, ok := m["id"].(string); ok {
					if _, seen := byID[id]; !seen {
						order = append(order, id)
						byID[id] = el
					}
					continue
				}
			}
		}
		out := make([]any, 0, len(order))
		for _, id := range order {
			out = append(out, byID[id])
		}
		return out
	}

	out := append([]any{}, local...)
	for _, rv := range remote {
		dup := false
		for _, lv := range local {
			if reflect.DeepEqual(lv, rv) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, rv)
		}
	}
	return out
}

func isIDKeyed(arr []any) bool {
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := m["id"].(string); !ok {
			return false
		}
	}
	return len(arr) > 0
}

// BulkResult reports the outcome of resolving many conflicts with one
// strategy: each conflict is resolved independently, so one failure does
// not block the rest.
type BulkResult struct {
	Resolved map[string]any    `json:"resolved"`
	Failed   map[string]string `json:"failed"`
}

// BulkResolve applies strategy to every conflict in conflicts.
func BulkResolve(conflicts []spec.Conflict, strategy spec.ResolutionStrategy) BulkResult {
	res := BulkResult{Resolved: map[string]any{}, Failed: map[string]string{}}
	for _, c := range conflicts {
		val, err := Resolve(c, strategy, nil)
		if err != nil {
			res.Failed[c.ID] = err.Error()
			continue
		}
		res.Resolved[c.ID] = val
	}
	return res
}

// AutoMergeResult reports which conflicts merged automatically and which
// were declined and still need a manual or ours/theirs decision.
type AutoMergeResult struct {
	Merged   map[string]any    `json:"merged"`
	Declined map[string]string `json:"declined"`
}

// AutoMergeAll runs AutoMerge over every conflict in conflicts.
func AutoMergeAll(conflicts []spec.Conflict) AutoMergeResult {
	res := AutoMergeResult{Merged: map[string]any{}, Declined: map[string]string{}}
	for _, c := range conflicts {
		val, err := AutoMerge(c)
		if err != nil {
			res.Declined[c.ID] = err.Error()
			continue
		}
		res.Merged[c.ID] = val
	}
	return res
}
