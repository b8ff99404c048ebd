package schema

import (
	"fmt"
	"strings"

	"github.com/manifold-dev/manifold/internal/spec"
)

// Warning is a non-fatal completeness issue found by Lint. A Spec with
// warnings still passes Validate.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Lint checks s for common completeness issues: missing scenarios,
// SHALL/MUST-free requirement statements, tasks with no acceptance
// criteria or dangling requirement references. None of these block a
// spec from being stored — they surface as review hints.
func Lint(s *spec.Spec) []Warning {
	var w []Warning

	if len(s.Requirements) == 0 {
		w = append(w, Warning{"requirements", "spec has no requirements defined"})
	}

	reqIDs := make(map[string]bool, len(s.Requirements))
	for _, req := range s.Requirements {
		reqIDs[req.ID] = true
	}

	for _, req := range s.Requirements {
		if len(req.Scenarios) == 0 {
			w = append(w, Warning{req.ID, "no scenarios defined"})
		}
		shallUpper := strings.ToUpper(req.Shall)
		if !strings.Contains(shallUpper, "SHALL") && !strings.Contains(shallUpper, "MUST") {
			w = append(w, Warning{req.ID, "requirement text doesn't use SHALL or MUST"})
		}
		for _, sc := range req.Scenarios {
			if len(sc.Given) == 0 {
				w = append(w, Warning{fmt.Sprintf("%s/%s", req.ID, sc.ID), "empty 'given' preconditions"})
			}
			if len(sc.Then) == 0 {
				w = append(w, Warning{fmt.Sprintf("%s/%s", req.ID, sc.ID), "empty 'then' outcomes"})
			}
		}
	}

	for _, task := range s.Tasks {
		if len(task.RequirementIDs) == 0 {
			w = append(w, Warning{task.ID, "task doesn't reference any requirements"})
		}
		for _, rid := range task.RequirementIDs {
			if !reqIDs[rid] {
				w = append(w, Warning{task.ID, fmt.Sprintf("references non-existent requirement %s", rid)})
			}
		}
		if len(task.Acceptance) == 0 {
			w = append(w, Warning{task.ID, "no acceptance criteria defined"})
		}
	}

	return w
}
