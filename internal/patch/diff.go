package patch

import (
	"fmt"
	"reflect"
)

// Diff produces the minimal-enough set of RFC 6902 operations that
// transform oldDoc into newDoc. Both arguments may be any JSON-marshalable
// value (typically *spec.Spec) — they are canonicalized internally.
//
// Arrays whose elements are all objects carrying a string "id" field are
// diffed by id rather than by position: matching ids are recursed into
// field-by-field, survivors that changed position produce a "move",
// and ids present only on one side produce "add"/"remove". This keeps
// reordering a spec's requirements or tasks from looking like a full
// replacement. All other arrays fall back to positional comparison.
func Diff(oldDoc, newDoc any) ([]Patch, error) {
	o, err := Canonicalize(oldDoc)
	if err != nil {
		return nil, err
	}
	n, err := Canonicalize(newDoc)
	if err != nil {
		return nil, err
	}
	return diffValue("", o, n), nil
}

func diffValue(path string, oldVal, newVal any) []Patch {
	oldMap, oldIsMap := oldVal.(map[string]any)
	newMap, newIsMap := newVal.(map[string]any)
	if oldIsMap && newIsMap {
		return diffMap(path, oldMap, newMap)
	}

	oldArr, oldIsArr := oldVal.([]any)
	newArr, newIsArr := newVal.([]any)
	if oldIsArr && newIsArr {
		return diffArray(path, oldArr, newArr)
	}

	if reflect.DeepEqual(oldVal, newVal) {
		return nil
	}
	return []Patch{{Op: OpReplace, Path: path, Value: newVal}}
}

func diffMap(path string, oldMap, newMap map[string]any) []Patch {
	var ops []Patch
	for k, ov := range oldMap {
		nv, stillPresent := newMap[k]
		childPath := joinChild(path, k)
		if !stillPresent {
			ops = append(ops, Patch{Op: OpRemove, Path: childPath})
			continue
		}
		ops = append(ops, diffValue(childPath, ov, nv)...)
	}
	for k, nv := range newMap {
		if _, existed := oldMap[k]; !existed {
			ops = append(ops, Patch{Op: OpAdd, Path: joinChild(path, k), Value: nv})
		}
	}
	return ops
}

func joinChild(basePath, key string) string {
	tokens, _ := splitPointer(basePath)
	return joinPointer(append(tokens, key))
}

func diffArray(basePath string, oldArr, newArr []any) []Patch {
	if !isIDKeyed(oldArr) || !isIDKeyed(newArr) {
		return diffArrayPositional(basePath, oldArr, newArr)
	}

	oldIDs, oldByID := idIndex(oldArr)
	newIDs, newByID := idIndex(newArr)

	var ops []Patch
	current := append([]string{}, oldIDs...)

	// Removals first, in descending original-index order so earlier
	// indices stay valid as each remove is emitted.
	var removeAt []int
	for i, id := range current {
		if _, ok := newByID[id]; !ok {
			removeAt = append(removeAt, i)
		}
	}
	for i := len(removeAt) - 1; i >= 0; i-- {
		idx := removeAt[i]
		ops = append(ops, Patch{Op: OpRemove, Path: fmt.Sprintf("%s/%d", basePath, idx)})
	}
	removed := make(map[int]bool, len(removeAt))
	for _, idx := range removeAt {
		removed[idx] = true
	}
	var survivors []string
	for i, id := range current {
		if !removed[i] {
			survivors = append(survivors, id)
		}
	}
	current = survivors

	for i, id := range newIDs {
		oldIdx, existed := oldByID[id]
		if !existed {
			ops = append(ops, Patch{Op: OpAdd, Path: fmt.Sprintf("%s/%d", basePath, i), Value: newArr[newByID[id]]})
			current = insertAt(current, i, id)
			continue
		}
		curIdx := indexOf(current, id)
		if curIdx != i {
			ops = append(ops, Patch{Op: OpMove, From: fmt.Sprintf("%s/%d", basePath, curIdx), Path: fmt.Sprintf("%s/%d", basePath, i)})
			current = moveTo(current, curIdx, i)
		}
		ops = append(ops, diffValue(fmt.Sprintf("%s/%d", basePath, i), oldArr[oldIdx], newArr[newByID[id]])...)
	}
	return ops
}

func diffArrayPositional(basePath string, oldArr, newArr []any) []Patch {
	var ops []Patch
	minLen := len(oldArr)
	if len(newArr) < minLen {
		minLen = len(newArr)
	}
	for i := 0; i < minLen; i++ {
		ops = append(ops, diffValue(fmt.Sprintf("%s/%d", basePath, i), oldArr[i], newArr[i])...)
	}
	for i := len(oldArr) - 1; i >= minLen; i-- {
		ops = append(ops, Patch{Op: OpRemove, Path: fmt.Sprintf("%s/%d", basePath, i)})
	}
	for i := minLen; i < len(newArr); i++ {
		ops = append(ops, Patch{Op: OpAdd, Path: fmt.Sprintf("%s/%d", basePath, i), Value: newArr[i]})
	}
	return ops
}

func isIDKeyed(arr []any) bool {
	if len(arr) == 0 {
		return false
	}
	seen := make(map[string]bool, len(arr))
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			return false
		}
		id, ok := m["id"].(string)
		if !ok || id == "" || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

func idIndex(arr []any) (ids []string, byID map[string]int) {
	ids = make([]string, len(arr))
	byID = make(map[string]int, len(arr))
	for i, el := range arr {
		id := el.(map[string]any)["id"].(string)
		ids[i] = id
		byID[id] = i
	}
	return ids, byID
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func insertAt(s []string, i int, v string) []string {
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func moveTo(s []string, from, to int) []string {
	v := s[from]
	s = append(s[:from], s[from+1:]...)
	return insertAt(s, to, v)
}
