package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/manifold-dev/manifold/internal/spec"
	"github.com/manifold-dev/manifold/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSpec(id string) *spec.Spec {
	sp := spec.New(id, "acme", "Login flow", "", spec.BoundaryWork, 1000)
	sp.Requirements = []spec.Requirement{
		{ID: "req-1", Capability: "auth", Title: "Login", Shall: "The system SHALL authenticate users.", Priority: spec.PriorityMust},
	}
	return sp
}

func TestNewCreatesDBFile(t *testing.T) {
	dir := t.TempDir()
	s, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	if _, err := filepath.Abs(filepath.Join(dir, "manifold.db")); err != nil {
		t.Fatal(err)
	}
}

func TestCreateAndGetSpec(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp := sampleSpec("amber-ridge-owl")

	if err := s.CreateSpec(ctx, sp); err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	got, err := s.GetSpec(ctx, sp.SpecID)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	if got.Name != "Login flow" || got.Project != "acme" {
		t.Fatalf("unexpected spec: %+v", got)
	}
	if len(got.Requirements) != 1 {
		t.Fatalf("expected 1 requirement, got %d", len(got.Requirements))
	}
}

func TestGetSpecNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSpec(context.Background(), "missing-spec-id"); err == nil {
		t.Fatal("expected error for missing spec")
	}
}

func TestPutSpecUpdatesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp := sampleSpec("amber-ridge-owl")
	if err := s.CreateSpec(ctx, sp); err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	sp.Stage = spec.StageDesign
	sp.History.UpdatedAt = 2000
	if err := s.PutSpec(ctx, sp); err != nil {
		t.Fatalf("PutSpec: %v", err)
	}

	got, err := s.GetSpec(ctx, sp.SpecID)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	if got.Stage != spec.StageDesign {
		t.Fatalf("expected stage design, got %s", got.Stage)
	}
}

func TestPutSpecMissingFails(t *testing.T) {
	s := newTestStore(t)
	sp := sampleSpec("never-created")
	if err := s.PutSpec(context.Background(), sp); err == nil {
		t.Fatal("expected error updating a spec that was never created")
	}
}

func TestDeleteSpecRemovesRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp := sampleSpec("amber-ridge-owl")
	if err := s.CreateSpec(ctx, sp); err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}
	if err := s.DeleteSpec(ctx, sp.SpecID); err != nil {
		t.Fatalf("DeleteSpec: %v", err)
	}
	if _, err := s.GetSpec(ctx, sp.SpecID); err == nil {
		t.Fatal("expected spec to be gone")
	}
}

func TestListSpecsFiltersByProjectAndStage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := sampleSpec("amber-ridge-owl")
	a.Project = "acme"
	b := sampleSpec("violet-stone-fox")
	b.Project = "globex"
	b.Stage = spec.StageDesign

	for _, sp := range []*spec.Spec{a, b} {
		if err := s.CreateSpec(ctx, sp); err != nil {
			t.Fatalf("CreateSpec: %v", err)
		}
	}

	got, err := s.ListSpecs(ctx, store.Filter{Project: "acme"})
	if err != nil {
		t.Fatalf("ListSpecs: %v", err)
	}
	if len(got) != 1 || got[0].SpecID != a.SpecID {
		t.Fatalf("expected only acme spec, got %+v", got)
	}

	got, err = s.ListSpecs(ctx, store.Filter{Stage: spec.StageDesign})
	if err != nil {
		t.Fatalf("ListSpecs: %v", err)
	}
	if len(got) != 1 || got[0].SpecID != b.SpecID {
		t.Fatalf("expected only design-stage spec, got %+v", got)
	}
}

func TestListSpecsBreaksUpdatedAtTiesBySpecID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	z := sampleSpec("z-spec")
	a := sampleSpec("a-spec")
	for _, sp := range []*spec.Spec{z, a} {
		sp.History.UpdatedAt = 5000
		if err := s.CreateSpec(ctx, sp); err != nil {
			t.Fatalf("CreateSpec: %v", err)
		}
	}

	got, err := s.ListSpecs(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListSpecs: %v", err)
	}
	if len(got) != 2 || got[0].SpecID != "a-spec" || got[1].SpecID != "z-spec" {
		t.Fatalf("expected updated_at ties broken by spec_id ascending, got %+v", got)
	}
}

func TestSearchSpecsMatchesContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp := sampleSpec("amber-ridge-owl")
	if err := s.CreateSpec(ctx, sp); err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	got, err := s.SearchSpecs(ctx, "authenticate")
	if err != nil {
		t.Fatalf("SearchSpecs: %v", err)
	}
	if len(got) != 1 || got[0].SpecID != sp.SpecID {
		t.Fatalf("expected spec to be found by content search, got %+v", got)
	}
}

func TestSyncMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp := sampleSpec("amber-ridge-owl")
	if err := s.CreateSpec(ctx, sp); err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	if got, err := s.GetSyncMetadata(ctx, sp.SpecID); err != nil || got != nil {
		t.Fatalf("expected no sync metadata yet, got %+v, %v", got, err)
	}

	m := &spec.SyncMetadata{SpecID: sp.SpecID, LastSyncTimestamp: 1500, LastSyncHash: "deadbeef", Status: spec.SyncClean}
	if err := s.PutSyncMetadata(ctx, m); err != nil {
		t.Fatalf("PutSyncMetadata: %v", err)
	}

	got, err := s.GetSyncMetadata(ctx, sp.SpecID)
	if err != nil {
		t.Fatalf("GetSyncMetadata: %v", err)
	}
	if got.LastSyncHash != "deadbeef" || got.Status != spec.SyncClean {
		t.Fatalf("unexpected sync metadata: %+v", got)
	}

	m.Status = spec.SyncModified
	if err := s.PutSyncMetadata(ctx, m); err != nil {
		t.Fatalf("PutSyncMetadata (update): %v", err)
	}
	got, err = s.GetSyncMetadata(ctx, sp.SpecID)
	if err != nil {
		t.Fatalf("GetSyncMetadata: %v", err)
	}
	if got.Status != spec.SyncModified {
		t.Fatalf("expected updated status, got %s", got.Status)
	}
}

func TestBlobRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.PutBlob(ctx, "amber-ridge-owl", "deadbeef", []byte(`{"hello":"world"}`)); err != nil {
		t.Fatalf("PutBlob: %v", err)
	}
	data, err := s.GetBlob(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("GetBlob: %v", err)
	}
	if string(data) != `{"hello":"world"}` {
		t.Fatalf("unexpected blob content: %s", data)
	}
}

func TestConflictsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp := sampleSpec("amber-ridge-owl")
	if err := s.CreateSpec(ctx, sp); err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	conflicts := []spec.Conflict{
		{ID: "c1", SpecID: sp.SpecID, FieldPath: "/name", LocalValue: "A", RemoteValue: "B", DetectedAt: 1000, Status: spec.ConflictUnresolved},
	}
	if err := s.PutConflicts(ctx, conflicts); err != nil {
		t.Fatalf("PutConflicts: %v", err)
	}

	got, err := s.ListConflicts(ctx, sp.SpecID)
	if err != nil {
		t.Fatalf("ListConflicts: %v", err)
	}
	if len(got) != 1 || got[0].LocalValue != "A" {
		t.Fatalf("unexpected conflicts: %+v", got)
	}

	if err := s.UpdateConflictStatus(ctx, "c1", spec.ConflictResolvedLocal); err != nil {
		t.Fatalf("UpdateConflictStatus: %v", err)
	}
	got, err = s.ListConflicts(ctx, sp.SpecID)
	if err != nil {
		t.Fatalf("ListConflicts: %v", err)
	}
	if got[0].Status != spec.ConflictResolvedLocal {
		t.Fatalf("expected resolved_local, got %s", got[0].Status)
	}
}

func TestReviewsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp := sampleSpec("amber-ridge-owl")
	if err := s.CreateSpec(ctx, sp); err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	r := &spec.Review{ID: "rev-1", SpecID: sp.SpecID, Requester: "alice", Reviewer: "bob", Status: spec.ReviewPending, RequestedAt: 1000}
	if err := s.CreateReview(ctx, r); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	r.Status = spec.ReviewApproved
	r.Comment = "looks good"
	r.ReviewedAt = 2000
	if err := s.UpdateReview(ctx, r); err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}

	got, err := s.GetReview(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got.Status != spec.ReviewApproved || got.Comment != "looks good" {
		t.Fatalf("unexpected review: %+v", got)
	}

	list, err := s.ListReviews(ctx, sp.SpecID)
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 review, got %d", len(list))
	}
}

func TestWorkflowEventsAppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp := sampleSpec("amber-ridge-owl")
	if err := s.CreateSpec(ctx, sp); err != nil {
		t.Fatalf("CreateSpec: %v", err)
	}

	events := []spec.WorkflowEvent{
		{SpecID: sp.SpecID, Stage: spec.StageDesign, Event: "advanced", Actor: "alice", Timestamp: 1000},
		{SpecID: sp.SpecID, Stage: spec.StageTasks, Event: "advanced", Actor: "alice", Timestamp: 2000},
	}
	for _, e := range events {
		if err := s.AppendWorkflowEvent(ctx, e); err != nil {
			t.Fatalf("AppendWorkflowEvent: %v", err)
		}
	}

	got, err := s.ListWorkflowEvents(ctx, sp.SpecID)
	if err != nil {
		t.Fatalf("ListWorkflowEvents: %v", err)
	}
	if len(got) != 2 || got[0].Stage != spec.StageDesign || got[1].Stage != spec.StageTasks {
		t.Fatalf("unexpected event order: %+v", got)
	}
}

func TestNewFailsWhenAlreadyLocked(t *testing.T) {
	dir := t.TempDir()
	first, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer first.Close()

	_, err = store.New(store.Config{DataDir: dir})
	if !errors.Is(err, store.ErrStoreLocked) {
		t.Fatalf("expected ErrStoreLocked opening an already-locked store, got %v", err)
	}
}

func TestNewSucceedsAfterPriorStoreCloses(t *testing.T) {
	dir := t.TempDir()
	first, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("expected New() to succeed once the prior store released its lock, got %v", err)
	}
	second.Close()
}
