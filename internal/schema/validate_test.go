package schema

import (
	"testing"

	"github.com/manifold-dev/manifold/internal/spec"
)

func validSpec() *spec.Spec {
	s := spec.New("amber-ridge-owl", "demo", "Checkout", "", spec.BoundaryPersonal, 1000)
	s.Requirements = []spec.Requirement{{
		ID: "req-1", Capability: "checkout", Title: "Guest checkout",
		Shall: "The system SHALL allow guest checkout.", Priority: spec.PriorityMust,
		Scenarios: []spec.Scenario{{
			ID: "sc-1", Name: "happy path", Given: []string{"cart has items"},
			When: "user checks out", Then: []string{"order is created"},
		}},
	}}
	s.Tasks = []spec.Task{{
		ID: "task-1", RequirementIDs: []string{"req-1"}, Title: "Build form",
		Status: spec.TaskPending, Acceptance: []string{"form renders"},
	}}
	s.Decisions = []spec.Decision{{
		ID: "dec-1", Title: "Use Stripe", Context: "need a processor",
		Decision: "use Stripe", Rationale: "widely supported", Date: "2026-01-01",
	}}
	return s
}

func TestValidatePassesWellFormedSpec(t *testing.T) {
	v := Validate(validSpec(), Normal)
	if len(v) != 0 {
		t.Fatalf("expected no violations, got %+v", v)
	}
}

func TestValidateCatchesBadIDsAndMissingFields(t *testing.T) {
	s := validSpec()
	s.Requirements[0].ID = "not-a-req-id"
	s.Requirements[0].Title = ""
	s.Tasks[0].ID = "task-abc"

	v := Validate(s, Normal)
	if len(v) < 3 {
		t.Fatalf("expected at least 3 violations, got %+v", v)
	}
}

func TestValidateCatchesDuplicateIDs(t *testing.T) {
	s := validSpec()
	s.Requirements = append(s.Requirements, s.Requirements[0])

	v := Validate(s, Normal)
	found := false
	for _, vi := range v {
		if vi.Message == `duplicate requirement id "req-1"` {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected duplicate id violation, got %+v", v)
	}
}

func TestStrictModeDoesNotFoldCompletenessWarnings(t *testing.T) {
	s := validSpec()
	s.Tasks[0].Acceptance = nil

	if v := Validate(s, Normal); len(v) != 0 {
		t.Fatalf("normal mode should tolerate missing acceptance criteria, got %+v", v)
	}
	if v := Validate(s, Strict); len(v) != 0 {
		t.Fatalf("strict mode should not fold a missing-acceptance-criteria lint warning into a violation, got %+v", v)
	}
}

func TestStrictModeRejectsMissingShallOnceAtDesign(t *testing.T) {
	s := validSpec()
	s.Requirements[0].Shall = ""

	if v := Validate(s, Strict); len(v) != 0 {
		t.Fatalf("expected strict mode to tolerate a missing shall statement before design, got %+v", v)
	}

	s.Stage = spec.StageDesign
	if v := Validate(s, Normal); len(v) != 0 {
		t.Fatalf("normal mode should never reject a missing shall statement, got %+v", v)
	}
	v := Validate(s, Strict)
	if len(v) == 0 {
		t.Fatal("expected strict mode to reject a missing shall statement once a spec has reached design")
	}
}

func TestStrictModeRejectsTaskWithNoRequirementIDsOnceAtTasks(t *testing.T) {
	s := validSpec()
	s.Tasks[0].RequirementIDs = nil

	if v := Validate(s, Strict); len(v) != 0 {
		t.Fatalf("expected strict mode to tolerate an unlinked task before tasks, got %+v", v)
	}

	s.Stage = spec.StageTasks
	if v := Validate(s, Normal); len(v) != 0 {
		t.Fatalf("normal mode should never reject a task with no requirement_ids, got %+v", v)
	}
	v := Validate(s, Strict)
	if len(v) == 0 {
		t.Fatal("expected strict mode to reject a task with no requirement_ids once a spec has reached tasks")
	}
}

func TestLintWarnsOnIncompleteSpec(t *testing.T) {
	s := spec.New("amber-ridge-owl", "demo", "Empty", "", spec.BoundaryPersonal, 1000)
	w := Lint(s)
	if len(w) == 0 {
		t.Fatal("expected lint warnings for a spec with no requirements")
	}
}

func TestLintFlagsDanglingTaskReference(t *testing.T) {
	s := validSpec()
	s.Tasks[0].RequirementIDs = []string{"req-missing"}

	w := Lint(s)
	found := false
	for _, wi := range w {
		if wi.Path == "task-1" && wi.Message == "references non-existent requirement req-missing" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected dangling reference warning, got %+v", w)
	}
}

func TestDescribeProducesWellFormedSchema(t *testing.T) {
	d := Describe()
	if d["$id"] != "manifold://core/v1" {
		t.Fatalf("unexpected $id: %v", d["$id"])
	}
	props, ok := d["properties"].(map[string]any)
	if !ok || props["spec_id"] == nil {
		t.Fatal("expected properties.spec_id to be described")
	}
}
