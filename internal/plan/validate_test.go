package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func ws(id string, deps ...string) Workstream {
	return Workstream{ID: id, Title: "ws " + id, Deliverables: []string{"out"}, Dependencies: deps, Status: StatusPlanned}
}

func planOf(workstreams ...Workstream) *Plan {
	return &Plan{Phases: []Phase{{ID: 1, Title: "A", Workstreams: workstreams}}}
}

func TestValidate_SamplePlanValid(t *testing.T) {
	v := Validate(mustParse(t, samplePlan))
	if !v.Valid {
		t.Fatalf("errors = %v", v.Errors)
	}
	if len(v.Warnings) != 0 {
		t.Fatalf("warnings = %v", v.Warnings)
	}
}

func TestValidate_OrphanDependency(t *testing.T) {
	v := Validate(planOf(ws("1.1"), ws("1.2", "9.9")))
	if v.Valid {
		t.Fatal("expected invalid")
	}
	if len(v.Errors) != 1 {
		t.Fatalf("errors = %v", v.Errors)
	}
	if !strings.Contains(v.Errors[0], "1.2") || !strings.Contains(v.Errors[0], "9.9") {
		t.Fatalf("error should name both IDs: %q", v.Errors[0])
	}
}

func TestValidate_OrphanBlockIsWarning(t *testing.T) {
	w := ws("1.1")
	w.Blocks = []string{"4.2"}
	v := Validate(planOf(w))
	if !v.Valid {
		t.Fatalf("dangling blocks should not invalidate: %v", v.Errors)
	}
	if len(v.Warnings) != 1 || !strings.Contains(v.Warnings[0], "claims to block non-existent Workstream 4.2") {
		t.Fatalf("warnings = %v", v.Warnings)
	}
}

func TestValidate_TwoNodeCycle(t *testing.T) {
	v := Validate(planOf(ws("1.1", "1.2"), ws("1.2", "1.1")))
	if v.Valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, e := range v.Errors {
		if strings.Contains(e, "Circular dependency detected: 1.1 → 1.2 → 1.1") {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v", v.Errors)
	}
}

func TestValidate_SelfCycle(t *testing.T) {
	cycles := Cycles(planOf(ws("1.1", "1.1")))
	if len(cycles) != 1 || strings.Join(cycles[0], ",") != "1.1,1.1" {
		t.Fatalf("cycles = %v", cycles)
	}
}

func TestCycles_DiamondIsAcyclic(t *testing.T) {
	// 1.4 reaches 1.1 along two paths.
	p := planOf(ws("1.1"), ws("1.2", "1.1"), ws("1.3", "1.1"), ws("1.4", "1.2", "1.3"))
	if c := Cycles(p); len(c) != 0 {
		t.Fatalf("diamond reported as cycle: %v", c)
	}
}

func TestCycles_TailNotRendered(t *testing.T) {
	// 1.1 leads into the 1.2 ↔ 1.3 loop but is not part of it.
	p := planOf(ws("1.1", "1.2"), ws("1.2", "1.3"), ws("1.3", "1.2"))
	cycles := Cycles(p)
	if len(cycles) != 1 {
		t.Fatalf("cycles = %v", cycles)
	}
	if got := strings.Join(cycles[0], " → "); got != "1.2 → 1.3 → 1.2" {
		t.Fatalf("cycle = %q", got)
	}
}

func TestCycles_UnresolvedDependencyEndsBranch(t *testing.T) {
	v := Validate(planOf(ws("1.1", "7.7")))
	if len(v.Errors) != 1 || strings.Contains(v.Errors[0], "Circular") {
		t.Fatalf("errors = %v", v.Errors)
	}
}

func TestCycles_LargeChainTerminates(t *testing.T) {
	var list []Workstream
	list = append(list, ws("1.0"))
	for i := 1; i < 200; i++ {
		prev := list[i-1].ID
		id := "1." + strings.Repeat("1", i)
		list = append(list, ws(id, prev, "1.0"))
	}
	if c := Cycles(planOf(list...)); len(c) != 0 {
		t.Fatalf("unexpected cycles: %d", len(c))
	}
}

func TestValidate_MissingDeliverablesNonFatal(t *testing.T) {
	w := ws("1.1")
	w.Deliverables = nil
	v := Validate(planOf(w))
	if !v.Valid {
		t.Fatalf("errors = %v", v.Errors)
	}
	if len(v.Warnings) != 1 || v.Warnings[0] != "Workstream 1.1 has no deliverables" {
		t.Fatalf("warnings = %v", v.Warnings)
	}
}

func TestValidate_NilPlan(t *testing.T) {
	if v := Validate(nil); v.Valid || len(v.Errors) == 0 {
		t.Fatalf("nil plan should be invalid: %+v", v)
	}
}

func TestValidateFile_Missing(t *testing.T) {
	v := ValidateFile(filepath.Join(t.TempDir(), "PLAN.md"))
	if v.Valid || len(v.Errors) != 1 || !strings.Contains(v.Errors[0], "File not found") {
		t.Fatalf("v = %+v", v)
	}
}

func TestValidateFile_SkippedItemsAreWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PLAN.md")
	text := "## Phase 1: A\n\n### Workstream 1..1: Bad\n- **Deliverables:** x\n"
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	v := ValidateFile(path)
	if !v.Valid {
		t.Fatalf("errors = %v", v.Errors)
	}
	if len(v.Warnings) != 1 || !strings.HasPrefix(v.Warnings[0], "skipped: ") {
		t.Fatalf("warnings = %v", v.Warnings)
	}
}
