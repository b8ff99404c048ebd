// Package conflict implements the three-way comparison that finds
// field-level disagreements between a spec's local working copy and a
// remote version, relative to their last common synced base.
//
// Top-level scalar/object fields are compared directly; the three
// id-keyed array fields (requirements, tasks, decisions) are compared
// item-by-item by id rather than by position, with an explicit
// delete-vs-modify case — one side deleting an item the other side
// edited is itself a conflict, not a silent deletion.
package conflict

import (
	"fmt"
	"reflect"

	"github.com/manifold-dev/manifold/internal/patch"
	"github.com/manifold-dev/manifold/internal/spec"
)

// idKeyedArrayFields lists the top-level Spec fields compared by id
// rather than by position or whole-value equality.
var idKeyedArrayFields = map[string]bool{
	"requirements": true,
	"tasks":        true,
	"decisions":    true,
}

// excludedFields lists top-level Spec fields never compared for
// conflicts: history diverges on every independent write to either side
// and stages_completed is a derived bookkeeping trail, not spec content.
var excludedFields = map[string]bool{
	"history":          true,
	"stages_completed": true,
}

// Detect compares local and remote against base (which may be nil if no
// common sync point exists yet) and returns every field-level Conflict
// found. An empty result means local and remote can be merged without
// manual intervention.
func Detect(specID string, base, local, remote *spec.Spec, now int64) ([]spec.Conflict, error) {
	baseMap, err := toMap(base)
	if err != nil {
		return nil, err
	}
	localMap, err := toMap(local)
	if err != nil {
		return nil, err
	}
	remoteMap, err := toMap(remote)
	if err != nil {
		return nil, err
	}

	var conflicts []spec.Conflict
	for key := range unionKeys(localMap, remoteMap, baseMap) {
		if excludedFields[key] {
			continue
		}
		if idKeyedArrayFields[key] {
			conflicts = append(conflicts, detectArrayConflicts(specID, key, baseMap, localMap, remoteMap, now)...)
			continue
		}
		if c, ok := checkFieldConflict(specID, key, baseMap, localMap, remoteMap, now); ok {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts, nil
}

func toMap(s *spec.Spec) (map[string]any, error) {
	if s == nil {
		return map[string]any{}, nil
	}
	v, err := patch.Canonicalize(s)
	if err != nil {
		return nil, fmt.Errorf("conflict: canonicalizing spec: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("conflict: spec did not canonicalize to an object")
	}
	return m, nil
}

func unionKeys(maps ...map[string]any) map[string]bool {
	keys := make(map[string]bool)
	for _, m := range maps {
		for k := range m {
			keys[k] = true
		}
	}
	return keys
}

// checkFieldConflict decides whether one field disagrees enough to count
// as a conflict: equal values never conflict; with no base, any
// disagreement conflicts; with a base, a side that still matches base
// loses non-conflictingly to the side that changed, and only two
// divergent changes conflict.
func checkFieldConflict(specID, key string, baseMap, localMap, remoteMap map[string]any, now int64) (spec.Conflict, bool) {
	localVal, hasLocal := localMap[key]
	remoteVal, hasRemote := remoteMap[key]
	baseVal, hasBase := baseMap[key]

	if !hasLocal && !hasRemote {
		return spec.Conflict{}, false
	}
	if reflect.DeepEqual(localVal, remoteVal) {
		return spec.Conflict{}, false
	}
	if hasBase {
		if reflect.DeepEqual(localVal, baseVal) {
			return spec.Conflict{}, false // only remote changed
		}
		if reflect.DeepEqual(remoteVal, baseVal) {
			return spec.Conflict{}, false // only local changed
		}
	}
	return spec.Conflict{
		ID:          specID + ":" + key,
		SpecID:      specID,
		FieldPath:   key,
		LocalValue:  localVal,
		RemoteValue: remoteVal,
		BaseValue:   baseVal,
		DetectedAt:  now,
		Status:      spec.ConflictUnresolved,
	}, true
}

func detectArrayConflicts(specID, field string, baseMap, localMap, remoteMap map[string]any, now int64) []spec.Conflict {
	baseByID := idMap(baseMap[field])
	localByID := idMap(localMap[field])
	remoteByID := idMap(remoteMap[field])

	var conflicts []spec.Conflict
	for id := range unionStringKeys(localByID, remoteByID, baseByID) {
		path := field + "/" + id
		baseItem, hasBase := baseByID[id]
		localItem, hasLocal := localByID[id]
		remoteItem, hasRemote := remoteByID[id]

		switch {
		case hasLocal && hasRemote:
			if reflect.DeepEqual(localItem, remoteItem) {
				continue
			}
			if hasBase && (reflect.DeepEqual(localItem, baseItem) || reflect.DeepEqual(remoteItem, baseItem)) {
				continue
			}
			conflicts = append(conflicts, newArrayConflict(specID, path, localItem, remoteItem, baseItem, now))

		case hasLocal && !hasRemote:
			if hasBase && reflect.DeepEqual(localItem, baseItem) {
				continue // unchanged locally, legitimately deleted remotely
			}
			if !hasBase {
				continue // local added it; remote never knew about it
			}
			// local modified an item remote deleted: record the deletion
			// as a nil remote value, per the delete-vs-modify rule.
			conflicts = append(conflicts, newArrayConflict(specID, path, localItem, nil, baseItem, now))

		case !hasLocal && hasRemote:
			if hasBase && reflect.DeepEqual(remoteItem, baseItem) {
				continue // unchanged remotely, legitimately deleted locally
			}
			if !hasBase {
				continue // remote added it; local never knew about it
			}
			conflicts = append(conflicts, newArrayConflict(specID, path, nil, remoteItem, baseItem, now))
		}
	}
	return conflicts
}

func newArrayConflict(specID, path string, local, remote, base any, now int64) spec.Conflict {
	return spec.Conflict{
		ID:          specID + ":" + path,
		SpecID:      specID,
		FieldPath:   path,
		LocalValue:  local,
		RemoteValue: remote,
		BaseValue:   base,
		DetectedAt:  now,
		Status:      spec.ConflictUnresolved,
	}
}

func idMap(arrVal any) map[string]any {
	arr, ok := arrVal.([]any)
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(arr))
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		id, ok := m["id"].(string)
		if !ok {
			continue
		}
		out[id] = m
	}
	return out
}

func unionStringKeys(maps ...map[string]any) map[string]bool {
	keys := make(map[string]bool)
	for _, m := range maps {
		for k := range m {
			keys[k] = true
		}
	}
	return keys
}
