// Package workflow implements the fixed five-stage state machine every
// spec moves through: requirements → design → tasks → approval →
// implemented.
//
// It generalizes an adaptive per-(type,size) flow registry
// (CurrentStageIndex, CanAdvance, Advance) down to a
// single universal sequence, since a Manifold spec has one flow rather
// than many.
package workflow

import (
	"fmt"
	"strings"

	"github.com/manifold-dev/manifold/internal/spec"
)

// currentStageIndex returns s's position in the fixed stage sequence, or
// -1 if the stage is unrecognized.
func currentStageIndex(stage spec.Stage) int {
	for i, st := range spec.Stages {
		if st == stage {
			return i
		}
	}
	return -1
}

// IsLastStage reports whether s is already at the final workflow stage.
func IsLastStage(s *spec.Spec) bool {
	idx := currentStageIndex(s.Stage)
	return idx >= 0 && idx == len(spec.Stages)-1
}

// NextStage returns the stage that follows s's current stage, or an error
// if s is already at the final stage.
func NextStage(s *spec.Spec) (spec.Stage, error) {
	idx := currentStageIndex(s.Stage)
	if idx < 0 {
		return "", fmt.Errorf("workflow: unknown current stage %q", s.Stage)
	}
	if idx >= len(spec.Stages)-1 {
		return "", fmt.Errorf("workflow: %s is already at the final stage", s.SpecID)
	}
	return spec.Stages[idx+1], nil
}

// CanAdvance reports whether s meets every precondition to move to its
// next stage:
//
//   - requirements → design: at least one requirement exists, and at
//     least one requirement carries a non-empty SHALL statement.
//   - design → tasks: at least one decision has been recorded.
//   - tasks → approval: at least one task carries a non-empty
//     RequirementIDs whose ids reference a requirement that actually
//     exists on the spec — one good task suffices, the rest are not
//     required to be linked.
//   - approval → implemented: no automatic check. Whether a review must
//     be resolved first is a manual call, not a core precondition — the
//     review ledger records requests and approvals but never blocks a
//     transition on its own.
func CanAdvance(s *spec.Spec) error {
	next, err := NextStage(s)
	if err != nil {
		return err
	}

	switch next {
	case spec.StageDesign:
		if len(s.Requirements) == 0 {
			return fmt.Errorf("workflow: cannot advance to design: no requirements defined")
		}
		hasShall := false
		for _, r := range s.Requirements {
			if strings.TrimSpace(r.Shall) != "" {
				hasShall = true
				break
			}
		}
		if !hasShall {
			return fmt.Errorf("workflow: cannot advance to design: no requirement has a SHALL statement")
		}
		return nil

	case spec.StageTasks:
		if len(s.Decisions) == 0 {
			return fmt.Errorf("workflow: cannot advance to tasks: no decisions recorded")
		}
		return nil

	case spec.StageApproval:
		if len(s.Tasks) == 0 {
			return fmt.Errorf("workflow: cannot advance to approval: no tasks defined")
		}
		existing := make(map[string]bool, len(s.Requirements))
		for _, r := range s.Requirements {
			existing[r.ID] = true
		}
		for _, t := range s.Tasks {
			for _, rid := range t.RequirementIDs {
				if existing[rid] {
					return nil
				}
			}
		}
		return fmt.Errorf("workflow: cannot advance to approval: no task references an existing requirement")

	case spec.StageImplemented:
		return nil

	default:
		return fmt.Errorf("workflow: no preconditions defined for transition to %q", next)
	}
}

// Advance moves s to its next stage, appending the stage being left to
// StagesCompleted, setting History.UpdatedAt to now, and returning the
// WorkflowEvent to journal. It runs CanAdvance itself and returns that
// error unchanged when a precondition is not met.
func Advance(s *spec.Spec, actor string, now int64) (spec.WorkflowEvent, error) {
	if err := CanAdvance(s); err != nil {
		return spec.WorkflowEvent{}, err
	}
	next, err := NextStage(s)
	if err != nil {
		return spec.WorkflowEvent{}, err
	}

	s.StagesCompleted = append(s.StagesCompleted, s.Stage)
	prev := s.Stage
	s.Stage = next
	s.History.UpdatedAt = now

	return spec.WorkflowEvent{
		SpecID:    s.SpecID,
		Stage:     next,
		Event:     "advance",
		Actor:     actor,
		Timestamp: now,
		Details:   fmt.Sprintf("%s -> %s", prev, next),
	}, nil
}
