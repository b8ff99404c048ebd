// Package schema validates Spec documents structurally (Validate) and
// checks them for completeness issues that are not fatal (Lint).
//
// The split follows the same plain-Go-function style as the rest of this
// codebase's enum validators: each check is a small function returning
// fmt.Errorf, with no schema-description library interpreting rules at
// runtime. Describe() emits a JSON Schema document of the same shape for
// external tooling to introspect; its required-field lists are broader
// than what Validate checks, and Validate/Lint never read it back.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/manifold-dev/manifold/internal/spec"
)

var (
	reqIDPattern  = regexp.MustCompile(`^req-[0-9]+$`)
	scIDPattern   = regexp.MustCompile(`^sc-[0-9]+$`)
	taskIDPattern = regexp.MustCompile(`^task-[0-9]+$`)
	decIDPattern  = regexp.MustCompile(`^dec-[0-9]+$`)
)

// Violation is one structural validation failure.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) Error() string { return fmt.Sprintf("%s: %s", v.Path, v.Message) }

// Mode selects how strict Validate is about semantic, stage-dependent
// requirements. Normal mode only enforces hard structural requirements;
// Strict additionally rejects the two semantic violations spec.md names
// as stage-gated: a missing SHALL statement once a spec has reached
// design, and a task with zero requirement_ids once a spec has reached
// tasks. Strict mode does not fold Lint's other completeness warnings
// (missing scenarios, SHALL/MUST wording, dangling references) into
// hard violations — those remain advisory in both modes.
type Mode int

const (
	Normal Mode = iota
	Strict
)

// Validate runs structural checks against s and returns every violation
// found — an empty slice means s is structurally valid. In Strict mode,
// the two stage-gated semantic checks described on Mode are added.
func Validate(s *spec.Spec, mode Mode) []Violation {
	var v []Violation

	if err := spec.ValidateID(s.SpecID); err != nil {
		v = append(v, Violation{"spec_id", err.Error()})
	}
	if strings.TrimSpace(s.Project) == "" {
		v = append(v, Violation{"project", "project is required"})
	}
	if strings.TrimSpace(s.Name) == "" {
		v = append(v, Violation{"name", "name is required"})
	}
	if err := spec.ValidateBoundary(s.Boundary); err != nil {
		v = append(v, Violation{"boundary", err.Error()})
	}
	if err := spec.ValidateStage(s.Stage); err != nil {
		v = append(v, Violation{"stage", err.Error()})
	}

	seenReq := make(map[string]bool)
	for i, req := range s.Requirements {
		path := fmt.Sprintf("requirements[%d]", i)
		if !reqIDPattern.MatchString(req.ID) {
			v = append(v, Violation{path + ".id", fmt.Sprintf("requirement id %q must match req-N", req.ID)})
		} else if seenReq[req.ID] {
			v = append(v, Violation{path + ".id", fmt.Sprintf("duplicate requirement id %q", req.ID)})
		}
		seenReq[req.ID] = true
		if strings.TrimSpace(req.Title) == "" {
			v = append(v, Violation{path + ".title", "title is required"})
		}
		if req.Priority != "" {
			if err := spec.ValidatePriority(req.Priority); err != nil {
				v = append(v, Violation{path + ".priority", err.Error()})
			}
		}
		for j, sc := range req.Scenarios {
			scPath := fmt.Sprintf("%s.scenarios[%d]", path, j)
			if !scIDPattern.MatchString(sc.ID) {
				v = append(v, Violation{scPath + ".id", fmt.Sprintf("scenario id %q must match sc-N", sc.ID)})
			}
			if strings.TrimSpace(sc.Name) == "" {
				v = append(v, Violation{scPath + ".name", "name is required"})
			}
		}
	}

	seenTask := make(map[string]bool)
	for i, task := range s.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if !taskIDPattern.MatchString(task.ID) {
			v = append(v, Violation{path + ".id", fmt.Sprintf("task id %q must match task-N", task.ID)})
		} else if seenTask[task.ID] {
			v = append(v, Violation{path + ".id", fmt.Sprintf("duplicate task id %q", task.ID)})
		}
		seenTask[task.ID] = true
		if strings.TrimSpace(task.Title) == "" {
			v = append(v, Violation{path + ".title", "title is required"})
		}
		if task.Status != "" {
			if err := spec.ValidateTaskStatus(task.Status); err != nil {
				v = append(v, Violation{path + ".status", err.Error()})
			}
		}
	}

	for i, dec := range s.Decisions {
		path := fmt.Sprintf("decisions[%d]", i)
		if !decIDPattern.MatchString(dec.ID) {
			v = append(v, Violation{path + ".id", fmt.Sprintf("decision id %q must match dec-N", dec.ID)})
		}
		if strings.TrimSpace(dec.Title) == "" {
			v = append(v, Violation{path + ".title", "title is required"})
		}
	}

	if mode == Strict {
		if stageAtLeast(s.Stage, spec.StageDesign) {
			for i, req := range s.Requirements {
				if strings.TrimSpace(req.Shall) == "" {
					path := fmt.Sprintf("requirements[%d].shall", i)
					v = append(v, Violation{path, "shall statement is required once a spec has reached design"})
				}
			}
		}
		if stageAtLeast(s.Stage, spec.StageTasks) {
			for i, task := range s.Tasks {
				if len(task.RequirementIDs) == 0 {
					path := fmt.Sprintf("tasks[%d].requirement_ids", i)
					v = append(v, Violation{path, "task must reference at least one requirement once a spec has reached tasks"})
				}
			}
		}
	}

	return v
}

// stageAtLeast reports whether current is at or past target in the fixed
// requirements→design→tasks→approval→implemented sequence.
func stageAtLeast(current, target spec.Stage) bool {
	ci, ti := stageIndex(current), stageIndex(target)
	return ci >= 0 && ti >= 0 && ci >= ti
}

func stageIndex(s spec.Stage) int {
	for i, st := range spec.Stages {
		if st == s {
			return i
		}
	}
	return -1
}
