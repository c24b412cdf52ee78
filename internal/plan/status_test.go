package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const checklistPlan = `# Project Plan

## Progress
- [ ] Workstream 1.1: Protocol Design
- [ ] Workstream 1.10: Follow-up
- [x] Workstream 2.1: Testing

## Phase 1: Foundation

### Workstream 1.1: Protocol Design
- **Deliverables:** spec

### Workstream 1.10: Follow-up
- **Deliverables:** notes

## Phase 2: Hardening

### Workstream 2.1: Testing
- **Deliverables:** tests
`

func writePlan(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "PLAN.md")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUpdateStatus_RewritesMarker(t *testing.T) {
	path := writePlan(t, checklistPlan)
	up := UpdateStatus(path, "1.1", StatusCompleted)
	if !up.OK {
		t.Fatalf("errors = %v", up.Errors)
	}
	if up.UpdatedLines != 1 {
		t.Fatalf("updated = %d, want 1", up.UpdatedLines)
	}
	if up.OldStatus != StatusPlanned || up.NewStatus != StatusCompleted {
		t.Fatalf("old=%s new=%s", up.OldStatus, up.NewStatus)
	}
	data, _ := os.ReadFile(path)
	got := string(data)
	if !strings.Contains(got, "- [x] Workstream 1.1: Protocol Design") {
		t.Fatalf("marker not rewritten:\n%s", got)
	}
	if !strings.Contains(got, "- [ ] Workstream 1.10: Follow-up") {
		t.Fatal("1.10 must not be touched by an update to 1.1")
	}
}

func TestUpdateStatus_MarkerTable(t *testing.T) {
	cases := map[Status]string{
		StatusPlanned:    "[ ]",
		StatusInProgress: "[/]",
		StatusBlocked:    "[/]",
		StatusCompleted:  "[x]",
		StatusCancelled:  "[~]",
	}
	for s, want := range cases {
		path := writePlan(t, checklistPlan)
		if up := UpdateStatus(path, "2.1", s); !up.OK {
			t.Fatalf("%s: %v", s, up.Errors)
		}
		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), "- "+want+" Workstream 2.1") {
			t.Errorf("%s: marker %s not written", s, want)
		}
	}
}

func TestUpdateStatus_OldStatusFromMarker(t *testing.T) {
	path := writePlan(t, checklistPlan)
	up := UpdateStatus(path, "2.1", StatusInProgress)
	if up.OldStatus != StatusCompleted {
		t.Fatalf("old = %s, want COMPLETED", up.OldStatus)
	}
}

func TestUpdateStatus_NoMarkerLines(t *testing.T) {
	text := "## Phase 1: A\n\n### Workstream 1.1: X\n- **Deliverables:** y\n"
	path := writePlan(t, text)
	up := UpdateStatus(path, "1.1", StatusCompleted)
	if !up.OK || up.UpdatedLines != 0 {
		t.Fatalf("up = %+v", up)
	}
	data, _ := os.ReadFile(path)
	if string(data) != text {
		t.Fatal("document changed without any marker lines")
	}
}

func TestUpdateStatus_UnknownWorkstream(t *testing.T) {
	path := writePlan(t, checklistPlan)
	up := UpdateStatus(path, "8.8", StatusCompleted)
	if up.OK || len(up.Errors) != 1 || up.Errors[0] != "Workstream 8.8 not found in PLAN.md" {
		t.Fatalf("up = %+v", up)
	}
}

func TestUpdateStatus_MissingFile(t *testing.T) {
	up := UpdateStatus(filepath.Join(t.TempDir(), "PLAN.md"), "1.1", StatusCompleted)
	if up.OK || !strings.Contains(up.Errors[0], "File not found") {
		t.Fatalf("up = %+v", up)
	}
}

func TestUpdateStatus_ThenParseStaysPlanned(t *testing.T) {
	path := writePlan(t, checklistPlan)
	UpdateStatus(path, "1.1", StatusCompleted)
	res := ParseFile(path)
	ws, _ := res.Plan.Workstream("1.1")
	if ws.Status != StatusPlanned {
		t.Fatalf("parse inferred status %s", ws.Status)
	}
	if got := StatusesFromMarkers(res.Raw)["1.1"]; got != StatusCompleted {
		t.Fatalf("StatusesFromMarkers = %s", got)
	}
}

func TestStatusesFromMarkers(t *testing.T) {
	got := StatusesFromMarkers(checklistPlan)
	if got["1.1"] != StatusPlanned || got["2.1"] != StatusCompleted || got["1.10"] != StatusPlanned {
		t.Fatalf("got %v", got)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries", len(got))
	}
}

func TestMentions(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"- [ ] Workstream 1.1: X", true},
		{"- [ ] Workstream 1.10: X", false},
		{"- [ ] Workstream 1.1.2: X", false},
		{"see Workstream 1.1.", true},
		{"Workstream 1.1", true},
		{"Workstream 1.12 then Workstream 1.1 later", true},
	}
	for _, tc := range cases {
		if got := mentions(tc.line, "1.1"); got != tc.want {
			t.Errorf("mentions(%q) = %v", tc.line, got)
		}
	}
}
