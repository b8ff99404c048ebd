// Package spec defines the canonical data model Manifold persists and
// exchanges: the Spec document and the entities nested inside it.
//
// Every struct here mirrors the wire JSON layout byte for byte — the same
// struct is marshaled to the store, to the git-tracked export file, and to
// MCP/CLI responses. There is no separate "DTO" layer.
package spec

import "fmt"

// Boundary scopes a spec to a sharing domain. It is validated on write and
// used to filter listings; it does not restrict sync remotes or access
// within this process.
type Boundary string

const (
	BoundaryPersonal Boundary = "personal"
	BoundaryWork     Boundary = "work"
	BoundaryCompany  Boundary = "company"
)

var validBoundaries = map[Boundary]bool{
	BoundaryPersonal: true,
	BoundaryWork:     true,
	BoundaryCompany:  true,
}

// ValidateBoundary returns an error if b is not a recognized boundary.
func ValidateBoundary(b Boundary) error {
	if !validBoundaries[b] {
		return fmt.Errorf("invalid boundary %q: must be one of: personal, work, company", b)
	}
	return nil
}

// Stage is one of the five fixed workflow stages every spec moves through.
type Stage string

const (
	StageRequirements Stage = "requirements"
	StageDesign       Stage = "design"
	StageTasks        Stage = "tasks"
	StageApproval     Stage = "approval"
	StageImplemented  Stage = "implemented"
)

// Stages is the fixed, ordered stage sequence. Every spec starts at index 0
// and can only move forward.
var Stages = []Stage{StageRequirements, StageDesign, StageTasks, StageApproval, StageImplemented}

var validStages = func() map[Stage]bool {
	m := make(map[Stage]bool, len(Stages))
	for _, s := range Stages {
		m[s] = true
	}
	return m
}()

// ValidateStage returns an error if s is not one of the five fixed stages.
func ValidateStage(s Stage) error {
	if !validStages[s] {
		return fmt.Errorf("invalid stage %q: must be one of: requirements, design, tasks, approval, implemented", s)
	}
	return nil
}

// Priority is a MoSCoW priority level for a Requirement.
type Priority string

const (
	PriorityMust   Priority = "must"
	PriorityShould Priority = "should"
	PriorityCould  Priority = "could"
	PriorityWont   Priority = "wont"
)

var validPriorities = map[Priority]bool{
	PriorityMust:   true,
	PriorityShould: true,
	PriorityCould:  true,
	PriorityWont:   true,
}

// ValidatePriority returns an error if p is not a recognized MoSCoW level.
func ValidatePriority(p Priority) error {
	if !validPriorities[p] {
		return fmt.Errorf("invalid priority %q: must be one of: must, should, could, wont", p)
	}
	return nil
}

// TaskStatus tracks the implementation status of a Task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

var validTaskStatuses = map[TaskStatus]bool{
	TaskPending:    true,
	TaskInProgress: true,
	TaskCompleted:  true,
	TaskBlocked:    true,
}

// ValidateTaskStatus returns an error if s is not a recognized task status.
func ValidateTaskStatus(s TaskStatus) error {
	if !validTaskStatuses[s] {
		return fmt.Errorf("invalid task status %q: must be one of: pending, in_progress, completed, blocked", s)
	}
	return nil
}

// Scenario is one GIVEN/WHEN/THEN example attached to a Requirement.
type Scenario struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Given     []string `json:"given"`
	When      string   `json:"when"`
	Then      []string `json:"then"`
	EdgeCases []string `json:"edge_cases,omitempty"`
}

// Requirement is a single SHALL statement plus the scenarios that pin down
// its acceptance criteria.
type Requirement struct {
	ID         string     `json:"id"`
	Capability string     `json:"capability"`
	Title      string     `json:"title"`
	Shall      string     `json:"shall"`
	Rationale  string     `json:"rationale,omitempty"`
	Priority   Priority   `json:"priority"`
	Tags       []string   `json:"tags,omitempty"`
	Scenarios  []Scenario `json:"scenarios,omitempty"`
}

// Task is a unit of implementation work, explicitly traceable to one or
// more requirements.
type Task struct {
	ID            string     `json:"id"`
	RequirementIDs []string  `json:"requirement_ids"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        TaskStatus `json:"status"`
	Assignee      string     `json:"assignee,omitempty"`
	Acceptance    []string   `json:"acceptance,omitempty"`
}

// Decision is a recorded design decision with rationale and rejected
// alternatives — the spec-local counterpart of an ADR.
type Decision struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Context              string   `json:"context"`
	Decision             string   `json:"decision"`
	Rationale            string   `json:"rationale"`
	AlternativesRejected []string `json:"alternatives_rejected,omitempty"`
	Date                 string   `json:"date"`
}

// PatchOperation is one RFC 6902 operation recorded as part of a
// PatchEntry — the same shape as patch.Patch, redeclared here so this
// package has no dependency on internal/patch.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value,omitempty"`
}

// PatchEntry is one applied write recorded in a spec's History, holding
// every RFC 6902 operation that write produced.
type PatchEntry struct {
	Timestamp  int64            `json:"timestamp"`
	Actor      string           `json:"actor"`
	Operations []PatchOperation `json:"operations"`
}

// History tracks creation/update timestamps and the patch log.
type History struct {
	CreatedAt int64        `json:"created_at"`
	UpdatedAt int64        `json:"updated_at"`
	Patches   []PatchEntry `json:"patches,omitempty"`
}

// Schema is the fixed `$schema` marker every persisted Spec carries.
const Schema = "manifold://core/v1"

// Spec is the full canonical document for one spec: the root JSON object
// that is stored, synced, and diffed as a single unit.
type Spec struct {
	SchemaURI        string    `json:"$schema"`
	SpecID           string    `json:"spec_id"`
	Project          string    `json:"project"`
	Boundary         Boundary  `json:"boundary"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Stage            Stage     `json:"stage"`
	StagesCompleted  []Stage   `json:"stages_completed,omitempty"`
	Requirements     []Requirement `json:"requirements,omitempty"`
	Tasks            []Task        `json:"tasks,omitempty"`
	Decisions        []Decision    `json:"decisions,omitempty"`
	History          History       `json:"history"`
}

// New builds a fresh Spec at the first workflow stage with an empty history.
func New(id, project, name, description string, boundary Boundary, now int64) *Spec {
	return &Spec{
		SchemaURI:   Schema,
		SpecID:      id,
		Project:     project,
		Name:        name,
		Description: description,
		Boundary:    boundary,
		Stage:       StageRequirements,
		History: History{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Requirement looks up a requirement by ID, returning nil if absent.
func (s *Spec) Requirement(id string) *Requirement {
	for i := range s.Requirements {
		if s.Requirements[i].ID == id {
			return &s.Requirements[i]
		}
	}
	return nil
}

// Task looks up a task by ID, returning nil if absent.
func (s *Spec) Task(id string) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// Summary is the compact projection of a Spec used in list views.
type Summary struct {
	SpecID    string   `json:"spec_id"`
	Project   string   `json:"project"`
	Boundary  Boundary `json:"boundary"`
	Name      string   `json:"name"`
	Stage     Stage    `json:"stage"`
	UpdatedAt int64    `json:"updated_at"`
}

// ToSummary projects a Spec down to its list-view Summary.
func (s *Spec) ToSummary() Summary {
	return Summary{
		SpecID:    s.SpecID,
		Project:   s.Project,
		Boundary:  s.Boundary,
		Name:      s.Name,
		Stage:     s.Stage,
		UpdatedAt: s.History.UpdatedAt,
	}
}
