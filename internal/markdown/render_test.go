package markdown

import (
	"strings"
	"testing"

	"github.com/manifold-dev/manifold/internal/spec"
)

func TestRenderIncludesCoreFields(t *testing.T) {
	sp := spec.New("spec-1", "acme", "Login flow", "", spec.BoundaryWork, 1000)
	sp.Requirements = []spec.Requirement{
		{
			ID:         "req-1",
			Capability: "auth",
			Title:      "Login",
			Shall:      "The system SHALL authenticate users.",
			Priority:   spec.PriorityMust,
			Scenarios: []spec.Scenario{
				{ID: "sc-1", Name: "happy path", Given: []string{"a registered user"}, When: "they submit valid credentials", Then: []string{"they are logged in"}},
			},
		},
	}
	sp.Tasks = []spec.Task{
		{ID: "task-1", RequirementIDs: []string{"req-1"}, Title: "Implement login", Status: spec.TaskCompleted},
	}
	sp.Decisions = []spec.Decision{
		{ID: "dec-1", Title: "Use JWT", Context: "stateless auth", Decision: "adopt JWT", Rationale: "simplicity", Date: "2026-01-01"},
	}

	out, err := Render(sp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"# Login flow",
		"spec-1",
		"## Requirements",
		"req-1: Login [must]",
		"The system SHALL authenticate users.",
		"happy path",
		"## Decisions",
		"dec-1: Use JWT (2026-01-01)",
		"## Tasks",
		"[x] **task-1**",
		"implements req-1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected rendered output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderIncludesDescriptionWhenSet(t *testing.T) {
	sp := spec.New("spec-3", "acme", "Login flow", "Lets a user authenticate with email and password.", spec.BoundaryWork, 1000)

	out, err := Render(sp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Lets a user authenticate with email and password.") {
		t.Errorf("expected rendered output to contain the description, got:\n%s", out)
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	sp := spec.New("spec-2", "acme", "Bare spec", "", spec.BoundaryPersonal, 1000)

	out, err := Render(sp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, unwanted := range []string{"## Requirements", "## Decisions", "## Tasks"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("did not expect %q in output for a bare spec:\n%s", unwanted, out)
		}
	}
}
