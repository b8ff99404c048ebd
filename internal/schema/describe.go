package schema

// Describe returns a JSON Schema document describing the Spec document
// shape, for editors and MCP clients that want to introspect the wire
// format. The validator in this package never reads this document back —
// it is generated output, not an interpreted rule set.
func Describe() map[string]any {
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id":      "manifold://core/v1",
		"title":    "Manifold spec document",
		"type":     "object",
		"required": []string{"spec_id", "project", "boundary", "name", "stage", "history"},
		"properties": map[string]any{
			"$schema":  map[string]any{"type": "string", "const": "manifold://core/v1"},
			"spec_id":  map[string]any{"type": "string", "pattern": "^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$"},
			"project":  map[string]any{"type": "string"},
			"boundary": map[string]any{"type": "string", "enum": []string{"personal", "work", "company"}},
			"name":        map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"stage": map[string]any{
				"type": "string",
				"enum": []string{"requirements", "design", "tasks", "approval", "implemented"},
			},
			"stages_completed": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"requirements":      map[string]any{"type": "array", "items": requirementSchema()},
			"tasks":             map[string]any{"type": "array", "items": taskSchema()},
			"decisions":         map[string]any{"type": "array", "items": decisionSchema()},
			"history":           historySchema(),
		},
	}
}

func requirementSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"id", "capability", "title", "shall"},
		"properties": map[string]any{
			"id":         map[string]any{"type": "string", "pattern": "^req-[0-9]+$"},
			"capability": map[string]any{"type": "string"},
			"title":      map[string]any{"type": "string"},
			"shall":      map[string]any{"type": "string"},
			"rationale":  map[string]any{"type": "string"},
			"priority":   map[string]any{"type": "string", "enum": []string{"must", "should", "could", "wont"}},
			"tags":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"scenarios":  map[string]any{"type": "array", "items": scenarioSchema()},
		},
	}
}

func scenarioSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"id", "name", "when"},
		"properties": map[string]any{
			"id":         map[string]any{"type": "string", "pattern": "^sc-[0-9]+$"},
			"name":       map[string]any{"type": "string"},
			"given":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"when":       map[string]any{"type": "string"},
			"then":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"edge_cases": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}

func taskSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"id", "title", "status"},
		"properties": map[string]any{
			"id":              map[string]any{"type": "string", "pattern": "^task-[0-9]+$"},
			"requirement_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"title":           map[string]any{"type": "string"},
			"description":     map[string]any{"type": "string"},
			"status":          map[string]any{"type": "string", "enum": []string{"pending", "in_progress", "completed", "blocked"}},
			"assignee":        map[string]any{"type": "string"},
			"acceptance":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}

func decisionSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"id", "title", "context", "decision", "rationale", "date"},
		"properties": map[string]any{
			"id":                    map[string]any{"type": "string", "pattern": "^dec-[0-9]+$"},
			"title":                 map[string]any{"type": "string"},
			"context":               map[string]any{"type": "string"},
			"decision":              map[string]any{"type": "string"},
			"rationale":             map[string]any{"type": "string"},
			"alternatives_rejected": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"date":                  map[string]any{"type": "string"},
		},
	}
}

func historySchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"created_at", "updated_at"},
		"properties": map[string]any{
			"created_at": map[string]any{"type": "integer"},
			"updated_at": map[string]any{"type": "integer"},
			"patches":    map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
		},
	}
}
