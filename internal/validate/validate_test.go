package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/plan"
)

const goodPlan = `# Plan

**Architect:** Jane Doe

## Phase 1: Foundation

### Workstream 1.1: Protocol Design
- **Deliverables:**
  - ` + "`specs/protocol.md`" + `
- **Dependencies:** None

### Workstream 1.2: Implementation
- **Deliverables:**
  - ` + "`internal/plan/parse.go`" + `
- **Dependencies:** Workstream 1.1
`

const goodActive = `---
project_name: "Grav"
mission_summary: "Keep PLAN.md and ACTIVE.md honest"
current_phase: "Phase 1: Foundation"
active_workstreams:
  - "Workstream 1.2: Implementation"
blocked_workstreams: []
completed_workstreams:
  - "Workstream 1.1: Protocol Design"
last_architect_update: "2026-03-10T08:00:00Z"
last_worker_update: "2026-03-10T08:00:00Z"
critical_decisions: []
key_files_modified: []
integration_status: "green"
next_milestone: "Phase 2"
---
`

const goodSpec = `# Protocol

Version: 1.0

The protocol describes how the architect and the workers exchange state.
`

func fixedNow() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

func writeFile(t *testing.T, root, rel, body string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func project(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "PLAN.md", goodPlan)
	writeFile(t, root, ".context/ACTIVE.md", goodActive)
	writeFile(t, root, "specs/protocol.md", goodSpec)
	return &config.Config{
		Root:           root,
		Plan:           "PLAN.md",
		Active:         ".context/ACTIVE.md",
		SpecsDir:       "specs",
		StalenessHours: 24,
		AlertHours:     48,
	}
}

func TestPlanStructure_MissingPhases(t *testing.T) {
	p := writeFile(t, t.TempDir(), "PLAN.md", "# Plan\n\nNothing yet.\n")
	r := PlanStructure(p)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if !contains(r.Errors, "Missing Phase headers") {
		t.Fatalf("errors = %v", r.Errors)
	}
}

func TestPlanStructure_NonStandardWorkstreamHeaders(t *testing.T) {
	p := writeFile(t, t.TempDir(), "PLAN.md", "## Phase 1: A\n\n### Workstream A: Odd\n- **Deliverables:** x\n")
	r := PlanStructure(p)
	if !contains(r.Warnings, "may not follow standard N.N format") {
		t.Fatalf("warnings = %v", r.Warnings)
	}
}

func TestPlanStructure_NotFound(t *testing.T) {
	r := PlanStructure(filepath.Join(t.TempDir(), "PLAN.md"))
	if r.Valid || !contains(r.Errors, "File not found") {
		t.Fatalf("got %+v", r)
	}
}

func TestSpec(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		valid    bool
		errors   []string
		warnings []string
	}{
		{name: "good", body: goodSpec, valid: true},
		{name: "no title", body: "Version: 1\n" + strings.Repeat("detail ", 10), errors: []string{"missing primary title"}},
		{name: "no version", body: "# T\n" + strings.Repeat("detail ", 10), valid: true, warnings: []string{"Version:"}},
		{name: "short", body: "# T\nVersion: 1\n", errors: []string{"suspiciously short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Spec(writeFile(t, t.TempDir(), "s.md", tt.body))
			if r.Valid != tt.valid {
				t.Fatalf("valid = %v, errors = %v", r.Valid, r.Errors)
			}
			for _, e := range tt.errors {
				if !contains(r.Errors, e) {
					t.Errorf("missing error %q in %v", e, r.Errors)
				}
			}
			for _, w := range tt.warnings {
				if !contains(r.Warnings, w) {
					t.Errorf("missing warning %q in %v", w, r.Warnings)
				}
			}
		})
	}
}

func TestProject_Passes(t *testing.T) {
	cfg := project(t)
	statuses := map[string]plan.Status{"1.1": plan.StatusCompleted, "1.2": plan.StatusInProgress}
	r, err := Project(cfg, fixedNow, statuses)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Valid {
		t.Fatalf("report = %+v", r)
	}
	want := "Project Validation: PASSED\n- ACTIVE.md: Valid\n- PLAN.md: Valid\n- Specs: 1/1 Valid\n- Sync: In Sync"
	if r.Summary != want {
		t.Fatalf("summary =\n%s", r.Summary)
	}
}

func TestProject_FailsOnSyncAndSpec(t *testing.T) {
	cfg := project(t)
	writeFile(t, cfg.Root, "specs/thin.md", "# Thin\n")
	statuses := map[string]plan.Status{"1.2": plan.StatusBlocked}
	r, err := Project(cfg, fixedNow, statuses)
	if err != nil {
		t.Fatal(err)
	}
	if r.Valid {
		t.Fatal("expected failure")
	}
	for _, line := range []string{"FAILED", "Specs: 1/2 Valid", "Sync: OUT OF SYNC"} {
		if !strings.Contains(r.Summary, line) {
			t.Errorf("summary missing %q:\n%s", line, r.Summary)
		}
	}
	if len(r.Sync.Discrepancies) != 1 || r.Sync.Discrepancies[0].WorkstreamID != "1.2" {
		t.Fatalf("discrepancies = %+v", r.Sync.Discrepancies)
	}
}

func TestProject_NoSpecsDir(t *testing.T) {
	cfg := project(t)
	if err := os.RemoveAll(cfg.SpecsPath()); err != nil {
		t.Fatal(err)
	}
	r, err := Project(cfg, fixedNow, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Specs) != 0 || !strings.Contains(r.Summary, "Specs: 0/0 Valid") {
		t.Fatalf("report = %+v", r)
	}
}

func contains(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
