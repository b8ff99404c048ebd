package resolve

import (
	"testing"

	"github.com/manifold-dev/manifold/internal/spec"
)

func TestResolveOursAndTheirs(t *testing.T) {
	c := spec.Conflict{ID: "c1", LocalValue: "A", RemoteValue: "B"}

	v, err := Resolve(c, spec.ResolveOurs, nil)
	if err != nil || v != "A" {
		t.Fatalf("ours: got %v, %v", v, err)
	}
	v, err = Resolve(c, spec.ResolveTheirs, nil)
	if err != nil || v != "B" {
		t.Fatalf("theirs: got %v, %v", v, err)
	}
}

func TestResolveManualRequiresValue(t *testing.T) {
	c := spec.Conflict{ID: "c1", LocalValue: "A", RemoteValue: "B"}
	if _, err := Resolve(c, spec.ResolveManual, nil); err == nil {
		t.Fatal("expected error without a manual value")
	}
	v, err := Resolve(c, spec.ResolveManual, "C")
	if err != nil || v != "C" {
		t.Fatalf("manual: got %v, %v", v, err)
	}
}

func TestAutoMergeDeclinesOnScalarConflict(t *testing.T) {
	c := spec.Conflict{ID: "c1", LocalValue: "A", RemoteValue: "B"}
	if _, err := AutoMerge(c); err == nil {
		t.Fatal("expected decline on scalar conflict")
	}
}

func TestAutoMergeDeclinesOnDeleteVsModify(t *testing.T) {
	c := spec.Conflict{ID: "c1", LocalValue: map[string]any{"title": "A"}, RemoteValue: nil}
	if _, err := AutoMerge(c); err == nil {
		t.Fatal("expected decline on delete-vs-modify")
	}
}

func TestAutoMergeStringPrefixExtension(t *testing.T) {
	c := spec.Conflict{ID: "c1", LocalValue: "Login", RemoteValue: "Login flow"}
	v, err := AutoMerge(c)
	if err != nil || v != "Login flow" {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestAutoMergeArrayUnionByID(t *testing.T) {
	c := spec.Conflict{
		ID: "c1",
		LocalValue: []any{
			map[string]any{"id": "z-local", "v": float64(1)},
		},
		RemoteValue: []any{
			map[string]any{"id": "a-remote", "v": float64(2)},
		},
	}
	v, err := AutoMerge(c)
	if err != nil {
		t.Fatalf("AutoMerge: %v", err)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("expected merged array of 2, got %+v", v)
	}
	first := arr[0].(map[string]any)
	if first["id"] != "z-local" {
		t.Fatalf("expected local-added item first, got %+v", arr)
	}
	second := arr[1].(map[string]any)
	if second["id"] != "a-remote" {
		t.Fatalf("expected remote-only item appended after local order, got %+v", arr)
	}
}

func TestAutoMergeRecursiveObjectMerge(t *testing.T) {
	c := spec.Conflict{
		ID:          "c1",
		LocalValue:  map[string]any{"title": "Login", "status": "pending"},
		RemoteValue: map[string]any{"title": "Login", "status": "pending", "extra": "field"},
	}
	v, err := AutoMerge(c)
	if err != nil {
		t.Fatalf("AutoMerge: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["extra"] != "field" || m["title"] != "Login" {
		t.Fatalf("unexpected merge result: %+v", v)
	}
}

func TestAutoMergeDeclinesNestedScalarConflict(t *testing.T) {
	c := spec.Conflict{
		ID:          "c1",
		LocalValue:  map[string]any{"title": "Login A"},
		RemoteValue: map[string]any{"title": "Login B"},
	}
	if _, err := AutoMerge(c); err == nil {
		t.Fatal("expected decline on nested scalar conflict")
	}
}

func TestBulkResolveFailsAllUnderManualAndResolvesAllUnderOurs(t *testing.T) {
	conflicts := []spec.Conflict{
		{ID: "ok", LocalValue: "A", RemoteValue: "B"},
		{ID: "bad"},
	}
	res := BulkResolve(conflicts, spec.ResolveManual)
	if len(res.Resolved) != 0 || len(res.Failed) != 2 {
		t.Fatalf("expected both to fail without manual values, got %+v", res)
	}

	res2 := BulkResolve(conflicts, spec.ResolveOurs)
	if len(res2.Resolved) != 2 || len(res2.Failed) != 0 {
		t.Fatalf("expected both to resolve under ours, got %+v", res2)
	}
}

func TestAutoMergeAllReportsDeclines(t *testing.T) {
	conflicts := []spec.Conflict{
		{ID: "scalar", LocalValue: "A", RemoteValue: "B"},
		{ID: "array", LocalValue: []any{map[string]any{"id": "a"}}, RemoteValue: []any{map[string]any{"id": "b"}}},
	}
	res := AutoMergeAll(conflicts)
	if len(res.Merged) != 1 || len(res.Declined) != 1 {
		t.Fatalf("expected one merge and one decline, got %+v", res)
	}
}
