package patch

import (
	"fmt"
	"reflect"
)

// Apply runs patches against doc in order and returns the resulting
// canonical JSON value. doc may be a typed value (e.g. *spec.Spec); the
// result is always map[string]any/[]any/scalar and should be passed
// through Decode to recover a typed value.
func Apply(doc any, patches []Patch) (any, error) {
	cur, err := Canonicalize(doc)
	if err != nil {
		return nil, err
	}
	for i, p := range patches {
		cur, err = applyOne(cur, p)
		if err != nil {
			return nil, fmt.Errorf("patch: op %d (%s %s): %w", i, p.Op, p.Path, err)
		}
	}
	return cur, nil
}

// ApplyInto applies patches to doc and decodes the result into out, a
// pointer to the target typed value.
func ApplyInto(doc any, patches []Patch, out any) error {
	result, err := Apply(doc, patches)
	if err != nil {
		return err
	}
	return Decode(result, out)
}

func applyOne(doc any, p Patch) (any, error) {
	switch p.Op {
	case OpAdd:
		return set(doc, p.Path, deepCopy(p.Value), true)
	case OpReplace:
		return set(doc, p.Path, deepCopy(p.Value), false)
	case OpRemove:
		return remove(doc, p.Path)
	case OpTest:
		got, err := get(doc, p.Path)
		if err != nil {
			return nil, err
		}
		if !reflect.DeepEqual(got, p.Value) {
			return nil, fmt.Errorf("test failed: value at %q does not match", p.Path)
		}
		return doc, nil
	case OpMove:
		if err := checkNoCycle(p.From, p.Path); err != nil {
			return nil, err
		}
		val, err := get(doc, p.From)
		if err != nil {
			return nil, err
		}
		doc, err = remove(doc, p.From)
		if err != nil {
			return nil, err
		}
		return set(doc, p.Path, val, true)
	case OpCopy:
		if err := checkNoCycle(p.From, p.Path); err != nil {
			return nil, err
		}
		val, err := get(doc, p.From)
		if err != nil {
			return nil, err
		}
		return set(doc, p.Path, deepCopy(val), true)
	default:
		return nil, fmt.Errorf("unknown op %q", p.Op)
	}
}

// checkNoCycle rejects move/copy operations that would place a value
// inside its own subtree (from is an ancestor pointer of, or equal to,
// path), which would otherwise produce a self-referential structure.
func checkNoCycle(from, path string) error {
	fromTokens, err := splitPointer(from)
	if err != nil {
		return err
	}
	pathTokens, err := splitPointer(path)
	if err != nil {
		return err
	}
	if len(pathTokens) < len(fromTokens) {
		return nil
	}
	for i, t := range fromTokens {
		if pathTokens[i] != t {
			return nil
		}
	}
	return fmt.Errorf("destination %q is within source %q: would create a cycle", path, from)
}
