package scaffold

import "text/template"

var activeTemplate = template.Must(template.New("ACTIVE.md").Parse(`---
project_name: {{printf "%q" .ProjectName}}
mission_summary: "Project mission summary"
current_phase: "Phase 1: Foundation"
active_workstreams: []
blocked_workstreams: []
completed_workstreams: []
last_architect_update: "{{.Now}}"
last_worker_update: "{{.Now}}"
critical_decisions: []
key_files_modified: []
integration_status: "Project initialized"
next_milestone: "Define project goals"
risk_alerts: []
---

# Active Context

## Current Focus
Project initialization

## Recent Changes
- Project structure created

## Blockers
None

## Notes for Workers
Read PLAN.md, then pick up a workstream from active_workstreams.
`))

const codingStyle = `# Coding Standards

## Architecture
1. **Tool isolation**: external interactions live in packages under ` + "`internal/tools/`" + `.
2. **Typed results**: tools return structured results, never bare strings for errors.

## Go Style
1. ` + "`gofmt`" + ` everything; doc comments on exported identifiers.
2. Wrap errors with context: ` + "`fmt.Errorf(\"reading plan: %w\", err)`" + `.

## Agent Patterns
1. **Stateless tools**: read state from PLAN.md and ACTIVE.md, write it back explicitly.
2. **Fail gracefully**: report what went wrong instead of aborting the session.
`

const systemPrompt = `# System Prompt

[Define the project-specific system prompt for workers]
`

var planTemplate = template.Must(template.New("PLAN.md").Parse(`# Project Plan

**Architect:** {{if .Architect}}{{.Architect}}{{else}}[Your Name]{{end}}
**Start Date:** {{.Date}}
**Target Completion:** [Date]
**Status:** Planning

---

## Phase 1: Foundation

**Duration:** [Estimate]
**Goal:** [Define your first phase]
`))

const mission = `# Project Mission

[Define the project mission and goals]
`

var specTemplate = template.Must(template.New("spec").Parse(`# {{.Title}}

**Version:** {{.Version}}
**Status:** Draft
**Created:** {{.Date}}
**Author:** {{.Author}}

---

## 1. Overview

### Purpose
[Describe what this specification defines and why it exists]

### Success Metric
[How will we know this spec is successfully implemented?]

### Design Philosophy
[Key principles guiding this specification]

---

## 2. Specification

[Detailed specification content goes here]

---

## 3. Anti-Patterns

### [Anti-pattern Name]
**Why:** [Explanation]

---

## 4. Revision History

| Version | Date | Changes | Author |
|---------|------|---------|--------|
| {{.Version}} | {{.Date}} | Initial specification | {{.Author}} |

---

**End of Specification**
`))

var workstreamTemplate = template.Must(template.New("workstream").Parse(`## META-CONTEXT (Read This First)
**Parent Project:** {{.ProjectName}}
**Your Architect:** {{.Architect}}
**Sync Protocol:** Read ` + "`.context/ACTIVE.md`" + ` and ` + "`PLAN.md`" + ` before starting.
**Dependency:** {{if .Dependencies}}{{range $i, $d := .Dependencies}}{{if $i}}, {{end}}Workstream {{$d}}{{end}}{{else}}None{{end}}

## CONTEXT
- **Project:** {{.ProjectName}}
- **Project Root:** {{.Root}}
- **Tech Stack:** {{.TechStack}}
- **Improvement Goal:** [Define improvement goal]

## PREREQUISITE: READ THESE FILES FIRST
- ` + "`PLAN.md`" + `
- ` + "`.context/ACTIVE.md`" + `

## YOUR SPECIFIC TASK

Workstream {{.ID}}: {{.Title}}

[Describe the task]

## Constraints
[List constraints]

## OUTPUTS (Definition of Done)

### Files to Create
{{range .Deliverables}}- [ ] ` + "`{{.}}`" + `
{{end}}
### Validation Steps
[List validation steps]

### State Synchronization
- [ ] Update ` + "`.context/ACTIVE.md`" + ` on completion
- [ ] Report to Architect: {{.Title}} completed

---
**Remember:** You are {{.Role}}. Recommended model: {{.Model}}
`))

var toolTemplate = template.Must(template.New("tool").Parse(`// Package {{.Name}} {{.Description}}
package {{.Name}}

import "errors"

// ErrNotImplemented is returned by the generated stubs.
var ErrNotImplemented = errors.New("{{.Name}}: not implemented")
{{range .Funcs}}
// {{.}} takes named arguments and returns a textual result.
func {{.}}(args map[string]any) (string, error) {
	return "", ErrNotImplemented
}
{{end}}`))

var toolTestTemplate = template.Must(template.New("tool_test").Parse(`package {{.Name}}

import (
	"errors"
	"testing"
)
{{range .Funcs}}
func Test{{.}}(t *testing.T) {
	_, err := {{.}}(map[string]any{})
	if errors.Is(err, ErrNotImplemented) {
		t.Skip("{{.}} not implemented")
	}
	if err != nil {
		t.Fatal(err)
	}
}
{{end}}`))
