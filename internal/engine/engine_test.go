package engine_test

import (
	"context"
	"testing"

	"github.com/manifold-dev/manifold/internal/engine"
	"github.com/manifold-dev/manifold/internal/patch"
	"github.com/manifold-dev/manifold/internal/review"
	"github.com/manifold-dev/manifold/internal/spec"
	"github.com/manifold-dev/manifold/internal/store"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{
		DataDir:    t.TempDir(),
		SyncDir:    t.TempDir(),
		SyncAuthor: "Test User",
		SyncEmail:  "test@manifold.dev",
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestCreateGetAndListSpec(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id, err := e.CreateSpec(ctx, "acme", "Login flow", "", spec.BoundaryWork)
	if err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated spec id")
	}

	sp, err := e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	if sp.Stage != spec.StageRequirements {
		t.Fatalf("expected fresh spec at requirements stage, got %s", sp.Stage)
	}

	summaries, err := e.ListSpecs(ctx, store.Filter{Project: "acme"})
	if err != nil {
		t.Fatalf("ListSpecs: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(summaries))
	}
}

func TestCreateSpecRejectsInvalidBoundary(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.CreateSpec(context.Background(), "acme", "x", "", spec.Boundary("nonsense")); err == nil {
		t.Fatal("expected rejection of invalid boundary")
	}
}

func TestWorkflowLifecycleWithPendingReview(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id, err := e.CreateSpec(ctx, "acme", "Login flow", "", spec.BoundaryWork)
	if err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	sp, err := e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	sp.Requirements = []spec.Requirement{
		{ID: "req-1", Capability: "auth", Title: "Login", Shall: "The system SHALL authenticate users.", Priority: spec.PriorityMust},
	}
	if err := e.PutSpec(ctx, sp, "alice"); err != nil {
		t.Fatalf("PutSpec: %v", err)
	}
	if err := e.WorkflowAdvance(ctx, id, "alice"); err != nil {
		t.Fatalf("advance to design: %v", err)
	}

	sp, err = e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	sp.Decisions = []spec.Decision{
		{ID: "dec-1", Title: "Use JWT", Context: "need stateless auth", Decision: "adopt JWT", Rationale: "simplicity", Date: "2026-01-01"},
	}
	if err := e.PutSpec(ctx, sp, "alice"); err != nil {
		t.Fatalf("PutSpec: %v", err)
	}
	if err := e.WorkflowAdvance(ctx, id, "alice"); err != nil {
		t.Fatalf("advance to tasks: %v", err)
	}

	sp, err = e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	sp.Tasks = []spec.Task{
		{ID: "task-1", RequirementIDs: []string{"req-1"}, Title: "Implement login", Status: spec.TaskPending},
	}
	if err := e.PutSpec(ctx, sp, "alice"); err != nil {
		t.Fatalf("PutSpec: %v", err)
	}
	if err := e.WorkflowAdvance(ctx, id, "alice"); err != nil {
		t.Fatalf("advance to approval: %v", err)
	}

	reviewID, err := e.ReviewRequest(ctx, id, "alice", "bob")
	if err != nil {
		t.Fatalf("ReviewRequest: %v", err)
	}

	if err := e.WorkflowAdvance(ctx, id, "alice"); err != nil {
		t.Fatalf("advance to implemented with a pending review: %v", err)
	}

	approveCtx := engine.WithActor(ctx, "bob")
	if err := e.ReviewApprove(approveCtx, reviewID, "looks good"); err != nil {
		t.Fatalf("ReviewApprove: %v", err)
	}

	sp, err = e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	if sp.Stage != spec.StageImplemented {
		t.Fatalf("expected implemented stage, got %s", sp.Stage)
	}

	events, err := e.WorkflowHistory(ctx, id)
	if err != nil {
		t.Fatalf("WorkflowHistory: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 journaled transitions, got %d", len(events))
	}
}

func TestReviewRejectRequiresReviewerActor(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id, err := e.CreateSpec(ctx, "acme", "Login flow", "", spec.BoundaryWork)
	if err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}
	reviewID, err := e.ReviewRequest(ctx, id, "alice", "bob")
	if err != nil {
		t.Fatalf("ReviewRequest: %v", err)
	}

	wrongActorCtx := engine.WithActor(ctx, "alice")
	if err := e.ReviewReject(wrongActorCtx, reviewID, "no good"); err == nil {
		t.Fatal("expected rejection attempt by non-reviewer to fail")
	}

	reviews, err := e.ReviewList(ctx, review.Filter{SpecID: id})
	if err != nil {
		t.Fatalf("ReviewList: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Status != spec.ReviewPending {
		t.Fatalf("expected review still pending, got %+v", reviews)
	}
}

func TestPutSpecRecordsReplayablePatch(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id, err := e.CreateSpec(ctx, "acme", "Login flow", "", spec.BoundaryWork)
	if err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	prior, err := e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	priorContent := *prior
	priorContent.History = spec.History{}

	updated, err := e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	updated.Name = "Login flow v2"
	updated.Requirements = []spec.Requirement{
		{ID: "req-1", Capability: "auth", Title: "Login", Shall: "The system SHALL authenticate users.", Priority: spec.PriorityMust},
	}
	if err := e.PutSpec(ctx, updated, "alice"); err != nil {
		t.Fatalf("PutSpec: %v", err)
	}

	stored, err := e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	if len(stored.History.Patches) != 1 {
		t.Fatalf("expected exactly one patch entry, got %d", len(stored.History.Patches))
	}
	entry := stored.History.Patches[0]
	if entry.Actor != "alice" {
		t.Fatalf("expected actor alice, got %q", entry.Actor)
	}
	if len(entry.Operations) == 0 {
		t.Fatal("expected at least one recorded operation")
	}

	ops := make([]patch.Patch, len(entry.Operations))
	for i, op := range entry.Operations {
		ops[i] = patch.Patch{Op: patch.Op(op.Op), Path: op.Path, From: op.From, Value: op.Value}
	}

	var replayed spec.Spec
	if err := patch.ApplyInto(&priorContent, ops, &replayed); err != nil {
		t.Fatalf("replaying recorded patch: %v", err)
	}
	if replayed.Name != stored.Name {
		t.Fatalf("replayed name %q does not match stored name %q", replayed.Name, stored.Name)
	}
	if len(replayed.Requirements) != 1 || replayed.Requirements[0].ID != "req-1" {
		t.Fatalf("replayed requirements do not match stored requirements: %+v", replayed.Requirements)
	}
}

func TestPutSpecRejectsStructurallyInvalidSpec(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id, err := e.CreateSpec(ctx, "acme", "Login flow", "", spec.BoundaryWork)
	if err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}
	sp, err := e.GetSpec(ctx, id)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	sp.Requirements = []spec.Requirement{{ID: "not-a-valid-id", Title: "bad"}}

	if err := e.PutSpec(ctx, sp, "alice"); err == nil {
		t.Fatal("expected rejection of a spec with a malformed requirement id")
	}
}
