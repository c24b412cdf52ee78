package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePlan = `# Project Plan

**Architect:** Jane Doe
**Start Date:** 2026-01-05
**Target Completion:** 2026-03-01
**Status:** Active

---

## Phase 1: Foundation

**Duration:** 2 weeks
**Goal:** Agree on the protocol

### Workstream 1.1: Protocol Design
- **Worker Role:** Protocol designer
- **Model:** opus
- **Deliverables:**
  - ` + "`specs/protocol.md`" + `

  - Sequence diagrams
- **Dependencies:** None
- **Blocks:** Workstream 1.2

### Workstream 1.2: Implementation
- **Worker Role:** Backend engineer
- **Deliverables:** ` + "`internal/plan/parse.go`" + `
  - Tests
- **Dependencies:** Workstream 1.1

## Phase 2: Hardening

### Workstream 2.1: Testing
- **Deliverables:**
  - ` + "`internal/plan/parse_test.go`" + `
- **Dependencies:** Workstream 1.1 and Workstream 1.2
`

func mustParse(t *testing.T, text string) *Plan {
	t.Helper()
	res := Parse(text)
	if !res.OK {
		t.Fatalf("parse failed: %v", res.Errors)
	}
	return res.Plan
}

func TestParse_Structure(t *testing.T) {
	p := mustParse(t, samplePlan)

	if len(p.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(p.Phases))
	}
	if p.Phases[0].ID != 1 || p.Phases[0].Title != "Foundation" {
		t.Fatalf("phase 0 = %+v", p.Phases[0])
	}
	if n := len(p.Phases[0].Workstreams); n != 2 {
		t.Fatalf("phase 1 workstreams = %d, want 2", n)
	}
	if n := len(p.Phases[1].Workstreams); n != 1 {
		t.Fatalf("phase 2 workstreams = %d, want 1", n)
	}
	ids := []string{}
	for _, ws := range p.Workstreams() {
		ids = append(ids, ws.ID)
	}
	if strings.Join(ids, ",") != "1.1,1.2,2.1" {
		t.Fatalf("order = %v", ids)
	}
}

func TestParse_Header(t *testing.T) {
	p := mustParse(t, samplePlan)
	if p.Architect != "Jane Doe" {
		t.Errorf("Architect = %q", p.Architect)
	}
	if p.StartDate != "2026-01-05" {
		t.Errorf("StartDate = %q", p.StartDate)
	}
	if p.TargetCompletion != "2026-03-01" {
		t.Errorf("TargetCompletion = %q", p.TargetCompletion)
	}
	if p.Status != "Active" {
		t.Errorf("Status = %q", p.Status)
	}
}

func TestParse_HeaderIgnoresPhaseRegion(t *testing.T) {
	p := mustParse(t, samplePlan)
	if _, ok := p.Header["duration"]; ok {
		t.Fatal("phase-level Duration leaked into plan header")
	}
}

func TestParse_PhaseFields(t *testing.T) {
	p := mustParse(t, samplePlan)
	ph := p.Phase(1)
	if ph == nil {
		t.Fatal("phase 1 not found")
	}
	if ph.Duration != "2 weeks" || ph.Goal != "Agree on the protocol" {
		t.Fatalf("phase fields = %+v", ph)
	}
	if p.Phase(3) != nil {
		t.Fatal("phase 3 should not exist")
	}
}

func TestParse_WorkstreamFields(t *testing.T) {
	p := mustParse(t, samplePlan)
	ws, ph := p.Workstream("1.1")
	if ws == nil || ph.ID != 1 {
		t.Fatal("1.1 not found in phase 1")
	}
	if ws.Title != "Protocol Design" || ws.Role != "Protocol designer" || ws.Model != "opus" {
		t.Fatalf("ws = %+v", ws)
	}
	if len(ws.Deliverables) != 2 || ws.Deliverables[0] != "`specs/protocol.md`" || ws.Deliverables[1] != "Sequence diagrams" {
		t.Fatalf("deliverables = %q", ws.Deliverables)
	}
	if len(ws.Dependencies) != 0 {
		t.Fatalf("dependencies = %v", ws.Dependencies)
	}
	if len(ws.Blocks) != 1 || ws.Blocks[0] != "1.2" {
		t.Fatalf("blocks = %v", ws.Blocks)
	}
	if ws.Status != StatusPlanned {
		t.Fatalf("status = %s", ws.Status)
	}
}

func TestParse_InlineDeliverable(t *testing.T) {
	p := mustParse(t, samplePlan)
	ws, _ := p.Workstream("1.2")
	if len(ws.Deliverables) != 2 || ws.Deliverables[0] != "`internal/plan/parse.go`" || ws.Deliverables[1] != "Tests" {
		t.Fatalf("deliverables = %q", ws.Deliverables)
	}
}

func TestParse_DeliverablesClosedByUnindentedLine(t *testing.T) {
	text := "## Phase 1: A\n\n### Workstream 1.1: X\n- **Deliverables:**\n  - a\nSome prose\n  - not a deliverable\n"
	p := mustParse(t, text)
	ws, _ := p.Workstream("1.1")
	if len(ws.Deliverables) != 1 || ws.Deliverables[0] != "a" {
		t.Fatalf("deliverables = %q", ws.Deliverables)
	}
}

func TestParse_DeliverablesClosedByOtherField(t *testing.T) {
	text := "## Phase 1: A\n\n### Workstream 1.1: X\n- **Deliverables:**\n  - a\n- **Notes:** skip me\n  - b\n"
	p := mustParse(t, text)
	ws, _ := p.Workstream("1.1")
	if len(ws.Deliverables) != 1 {
		t.Fatalf("deliverables = %q", ws.Deliverables)
	}
}

func TestParse_DependencyExtraction(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"Workstream 1.1", "1.1"},
		{"None", ""},
		{"  none ", ""},
		{"NONE", ""},
		{"Workstream 1.1 and Workstream 1.2", "1.1,1.2"},
		{"Workstream 1.1, Workstream 2.3, Workstream 1.1.", "1.1,2.3"},
		{"after the design review", ""},
	}
	for _, tc := range cases {
		got := strings.Join(references(tc.value), ",")
		if got != tc.want {
			t.Errorf("references(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestParse_MultipleDependencies(t *testing.T) {
	p := mustParse(t, samplePlan)
	ws, _ := p.Workstream("2.1")
	if strings.Join(ws.Dependencies, ",") != "1.1,1.2" {
		t.Fatalf("dependencies = %v", ws.Dependencies)
	}
}

func TestParse_EmptyPlan(t *testing.T) {
	res := Parse("# Project Plan\n\nNothing here yet.\n")
	if !res.OK {
		t.Fatalf("empty plan should parse: %v", res.Errors)
	}
	if len(res.Plan.Phases) != 0 {
		t.Fatalf("phases = %d", len(res.Plan.Phases))
	}
}

func TestParse_MalformedWorkstreamSkipped(t *testing.T) {
	text := "## Phase 1: A\n\n### Workstream 1..2: Bad\n- **Deliverables:** x\n\n### Workstream 1.3: Good\n- **Deliverables:** y\n"
	res := Parse(text)
	if !res.OK {
		t.Fatal("a malformed workstream must not fail the parse")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], `"1..2"`) || !strings.Contains(res.Errors[0], "line 3") {
		t.Fatalf("errors = %v", res.Errors)
	}
	if ws, _ := res.Plan.Workstream("1.3"); ws == nil {
		t.Fatal("later workstream lost")
	}
}

func TestParse_CRLF(t *testing.T) {
	text := strings.ReplaceAll(samplePlan, "\n", "\r\n")
	p := mustParse(t, text)
	ws, _ := p.Workstream("1.1")
	if ws.Title != "Protocol Design" || len(ws.Deliverables) != 2 {
		t.Fatalf("ws = %+v", ws)
	}
}

func TestParseFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PLAN.md")
	res := ParseFile(path)
	if res.OK || res.Plan != nil {
		t.Fatal("missing file should fail with no plan")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "File not found") {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestParseFile_KeepsRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PLAN.md")
	if err := os.WriteFile(path, []byte(samplePlan), 0644); err != nil {
		t.Fatal(err)
	}
	res := ParseFile(path)
	if !res.OK || res.Raw != samplePlan {
		t.Fatal("raw text not preserved")
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"completed":   StatusCompleted,
		"In Progress": StatusInProgress,
		"in-progress": StatusInProgress,
		"BLOCKED":     StatusBlocked,
	} {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"1.1=completed", " 2.1 = in progress"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["1.1"] != StatusCompleted || got["2.1"] != StatusInProgress {
		t.Errorf("got %v", got)
	}
	for _, bad := range []string{"1.1", "=COMPLETED", "1.1=done"} {
		if _, err := ParseAssignments([]string{bad}); err == nil {
			t.Errorf("ParseAssignments(%q): expected error", bad)
		}
	}
}

func TestApplyStatuses(t *testing.T) {
	p := mustParse(t, samplePlan)
	missing := p.ApplyStatuses(map[string]Status{"1.1": StatusCompleted, "9.9": StatusBlocked})
	if len(missing) != 1 || missing[0] != "9.9" {
		t.Fatalf("missing = %v", missing)
	}
	if ws, _ := p.Workstream("1.1"); ws.Status != StatusCompleted {
		t.Fatalf("status = %s", ws.Status)
	}
}
