package workflow

import (
	"testing"

	"github.com/manifold-dev/manifold/internal/spec"
)

func newSpec() *spec.Spec {
	return spec.New("amber-ridge-owl", "demo", "Checkout", "", spec.BoundaryPersonal, 1000)
}

func TestCannotAdvanceWithoutRequirements(t *testing.T) {
	s := newSpec()
	if err := CanAdvance(s); err == nil {
		t.Fatal("expected error advancing past requirements with none defined")
	}
}

func TestCannotAdvanceWithoutShallStatement(t *testing.T) {
	s := newSpec()
	s.Requirements = []spec.Requirement{{ID: "req-1", Title: "Login"}}
	if err := CanAdvance(s); err == nil {
		t.Fatal("expected error advancing without a SHALL statement")
	}
}

func TestCanAdvanceWithRequirements(t *testing.T) {
	s := newSpec()
	s.Requirements = []spec.Requirement{{ID: "req-1", Title: "Login", Shall: "The system SHALL authenticate users."}}
	if err := CanAdvance(s); err != nil {
		t.Fatalf("expected to advance, got %v", err)
	}
	ev, err := Advance(s, "alice", 2000)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if s.Stage != spec.StageDesign {
		t.Fatalf("expected design stage, got %s", s.Stage)
	}
	if ev.Stage != spec.StageDesign || ev.Actor != "alice" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if len(s.StagesCompleted) != 1 || s.StagesCompleted[0] != spec.StageRequirements {
		t.Fatalf("expected requirements marked completed, got %+v", s.StagesCompleted)
	}
}

func TestCannotAdvanceWithoutDecisions(t *testing.T) {
	s := newSpec()
	s.Stage = spec.StageDesign
	if err := CanAdvance(s); err == nil {
		t.Fatal("expected error advancing to tasks without decisions")
	}
	s.Decisions = []spec.Decision{{ID: "dec-1", Title: "Use Postgres"}}
	if err := CanAdvance(s); err != nil {
		t.Fatalf("expected to advance with a decision recorded, got %v", err)
	}
}

func TestTasksToApprovalRequiresAtLeastOneLinkedTask(t *testing.T) {
	s := newSpec()
	s.Stage = spec.StageTasks
	s.Requirements = []spec.Requirement{{ID: "req-1", Title: "Login"}}
	s.Tasks = []spec.Task{
		{ID: "task-1"},
		{ID: "task-2"},
	}
	if err := CanAdvance(s); err == nil {
		t.Fatal("expected error: no task references an existing requirement")
	}

	s.Tasks[1].RequirementIDs = []string{"req-1"}
	if err := CanAdvance(s); err != nil {
		t.Fatalf("expected to advance once one task links an existing requirement, got %v", err)
	}
}

func TestTasksToApprovalRejectsDanglingRequirementReference(t *testing.T) {
	s := newSpec()
	s.Stage = spec.StageTasks
	s.Requirements = []spec.Requirement{{ID: "req-1", Title: "Login"}}
	s.Tasks = []spec.Task{
		{ID: "task-1", RequirementIDs: []string{"req-missing"}},
	}
	if err := CanAdvance(s); err == nil {
		t.Fatal("expected error: task references a requirement that does not exist")
	}
}

func TestCannotGoBackwards(t *testing.T) {
	s := newSpec()
	s.Stage = spec.StageImplemented
	if _, err := NextStage(s); err == nil {
		t.Fatal("expected error: already at final stage")
	}
	if err := CanAdvance(s); err == nil {
		t.Fatal("expected CanAdvance to fail at the final stage")
	}
}

func TestApprovalToImplementedHasNoAutomaticCheck(t *testing.T) {
	s := newSpec()
	s.Stage = spec.StageApproval
	if err := CanAdvance(s); err != nil {
		t.Fatalf("expected approval to implemented to have no precondition, got %v", err)
	}
	if _, err := Advance(s, "alice", 3000); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if s.Stage != spec.StageImplemented {
		t.Fatalf("expected implemented stage, got %s", s.Stage)
	}
}
