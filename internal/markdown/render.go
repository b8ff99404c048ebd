// Package markdown renders a Spec as Markdown for the CLI's
// "spec get --format=md" path and the manifold_spec_get tool's format=md
// option. It holds no
// persistence or validation logic — Markdown here is purely a rendering
// of the canonical Spec document, never a source of truth, built on
// text/template since nothing in this codebase generates Markdown from
// structured data in the other direction (parsing Markdown into HTML is
// a different concern entirely).
package markdown

import (
	"strings"
	"text/template"

	"github.com/manifold-dev/manifold/internal/spec"
)

const specTemplate = `# {{.Name}}
{{if .Description}}
{{.Description}}
{{end}}
**Spec ID:** ` + "`{{.SpecID}}`" + `
**Project:** {{.Project}} · **Boundary:** {{.Boundary}} · **Stage:** {{.Stage}}
{{if .StagesCompleted}}**Completed stages:** {{range $i, $s := .StagesCompleted}}{{if $i}}, {{end}}{{$s}}{{end}}
{{end}}
{{if .Requirements}}## Requirements
{{range .Requirements}}
### {{.ID}}: {{.Title}} [{{.Priority}}]

{{.Shall}}
{{if .Rationale}}
_Rationale: {{.Rationale}}_
{{end}}{{range .Scenarios}}
- **{{.Name}}**
{{range .Given}}  - Given {{.}}
{{end}}  - When {{.When}}
{{range .Then}}  - Then {{.}}
{{end}}{{end}}{{end}}{{end}}
{{if .Decisions}}## Decisions
{{range .Decisions}}
### {{.ID}}: {{.Title}} ({{.Date}})

**Context:** {{.Context}}
**Decision:** {{.Decision}}
**Rationale:** {{.Rationale}}
{{if .AlternativesRejected}}**Alternatives rejected:** {{range $i, $a := .AlternativesRejected}}{{if $i}}, {{end}}{{$a}}{{end}}
{{end}}{{end}}{{end}}
{{if .Tasks}}## Tasks
{{range .Tasks}}
- [{{if eq .Status "completed"}}x{{else}} {{end}}] **{{.ID}}** {{.Title}} — {{.Status}}{{if .RequirementIDs}} (implements {{range $i, $r := .RequirementIDs}}{{if $i}}, {{end}}{{$r}}{{end}}){{end}}
{{end}}{{end}}
`

var parsed = template.Must(template.New("spec").Parse(specTemplate))

// Render renders sp as a Markdown document.
func Render(sp *spec.Spec) (string, error) {
	var buf strings.Builder
	if err := parsed.Execute(&buf, sp); err != nil {
		return "", err
	}
	return collapseBlankLines(buf.String()), nil
}

// collapseBlankLines folds runs of two or more blank lines left by empty
// template sections down to a single blank line, the way a hand-written Markdown
// file would read.
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s) + "\n"
}
