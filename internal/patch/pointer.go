package patch

import (
	"fmt"
	"strconv"
	"strings"
)

// splitPointer splits an RFC 6901 JSON Pointer into its unescaped tokens.
// The root pointer "" splits to an empty slice.
func splitPointer(p string) ([]string, error) {
	if p == "" {
		return nil, nil
	}
	if !strings.HasPrefix(p, "/") {
		return nil, fmt.Errorf("patch: pointer %q must start with '/'", p)
	}
	parts := strings.Split(p[1:], "/")
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
	}
	return parts, nil
}

// joinPointer builds an RFC 6901 pointer from unescaped tokens.
func joinPointer(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(t, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// navigate walks doc to the parent of the pointer's final token, returning
// the parent container and the final token. Used by get/set/remove so they
// share one traversal implementation.
func navigate(doc any, tokens []string) (parent any, lastToken string, err error) {
	if len(tokens) == 0 {
		return nil, "", fmt.Errorf("patch: root pointer has no parent")
	}
	cur := doc
	for _, t := range tokens[:len(tokens)-1] {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[t]
			if !ok {
				return nil, "", fmt.Errorf("patch: path segment %q not found", t)
			}
			cur = next
		case []any:
			idx, err := arrayIndex(t, len(v))
			if err != nil {
				return nil, "", err
			}
			cur = v[idx]
		default:
			return nil, "", fmt.Errorf("patch: cannot descend into scalar at %q", t)
		}
	}
	return cur, tokens[len(tokens)-1], nil
}

func arrayIndex(token string, length int) (int, error) {
	if token == "-" {
		return length, nil
	}
	idx, err := strconv.Atoi(token)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("patch: invalid array index %q", token)
	}
	return idx, nil
}

// get resolves a pointer against doc and returns the referenced value.
func get(doc any, ptr string) (any, error) {
	tokens, err := splitPointer(ptr)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return doc, nil
	}
	parent, last, err := navigate(doc, tokens)
	if err != nil {
		return nil, err
	}
	switch v := parent.(type) {
	case map[string]any:
		val, ok := v[last]
		if !ok {
			return nil, fmt.Errorf("patch: key %q not found", last)
		}
		return val, nil
	case []any:
		idx, err := arrayIndex(last, len(v))
		if err != nil {
			return nil, err
		}
		if idx >= len(v) {
			return nil, fmt.Errorf("patch: array index %d out of range", idx)
		}
		return v[idx], nil
	default:
		return nil, fmt.Errorf("patch: cannot index into scalar")
	}
}

// set writes value at ptr, growing arrays with "add" semantics (insert)
// and overwriting map keys / existing array slots otherwise.
func set(doc any, ptr string, value any, insert bool) (any, error) {
	tokens, err := splitPointer(ptr)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return value, nil
	}
	parent, last, err := navigate(doc, tokens)
	if err != nil {
		return nil, err
	}
	switch v := parent.(type) {
	case map[string]any:
		v[last] = value
		return doc, nil
	case []any:
		idx, err := arrayIndex(last, len(v))
		if err != nil {
			return nil, err
		}
		if insert {
			if idx > len(v) {
				return nil, fmt.Errorf("patch: array index %d out of range for insert", idx)
			}
			v = append(v, nil)
			copy(v[idx+1:], v[idx:])
			v[idx] = value
			return replaceInParent(doc, tokens[:len(tokens)-1], v)
		}
		if idx >= len(v) {
			return nil, fmt.Errorf("patch: array index %d out of range", idx)
		}
		v[idx] = value
		return doc, nil
	default:
		return nil, fmt.Errorf("patch: cannot set into scalar")
	}
}

// remove deletes the value at ptr, shrinking arrays in place.
func remove(doc any, ptr string) (any, error) {
	tokens, err := splitPointer(ptr)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("patch: cannot remove the document root")
	}
	parent, last, err := navigate(doc, tokens)
	if err != nil {
		return nil, err
	}
	switch v := parent.(type) {
	case map[string]any:
		if _, ok := v[last]; !ok {
			return nil, fmt.Errorf("patch: key %q not found", last)
		}
		delete(v, last)
		return doc, nil
	case []any:
		idx, err := arrayIndex(last, len(v))
		if err != nil {
			return nil, err
		}
		if idx >= len(v) {
			return nil, fmt.Errorf("patch: array index %d out of range", idx)
		}
		v = append(v[:idx], v[idx+1:]...)
		return replaceInParent(doc, tokens[:len(tokens)-1], v)
	default:
		return nil, fmt.Errorf("patch: cannot remove from scalar")
	}
}

// replaceInParent re-attaches a rebuilt array slice to its parent container
// (needed because Go's append on a slice taken from a map value may return
// a new underlying slice header).
func replaceInParent(doc any, parentTokens []string, newSlice []any) (any, error) {
	if len(parentTokens) == 0 {
		return newSlice, nil
	}
	grandparent, last, err := navigate(doc, parentTokens)
	if err != nil {
		return nil, err
	}
	switch v := grandparent.(type) {
	case map[string]any:
		v[last] = newSlice
	case []any:
		idx, err := arrayIndex(last, len(v))
		if err != nil {
			return nil, err
		}
		v[idx] = newSlice
	}
	return doc, nil
}
