package scaffold

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jorge-barreto/grav/internal/active"
	"github.com/jorge-barreto/grav/internal/plan"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testEnv(t *testing.T) Env {
	t.Helper()
	return Env{
		Root:        t.TempDir(),
		ProjectName: "demo",
		Architect:   "Jane Doe",
		TechStack:   "Go",
		Author:      "Worker (Auto-generated)",
		SpecsDir:    "specs",
		PromptsDir:  "artifacts/prompts",
		ToolsDir:    "internal/tools",
		ArchiveDir:  ".archive",
		ActivePath:  ".context/ACTIVE.md",
		PlanPath:    "PLAN.md",
		Now:         fixedNow,
	}
}

func TestProject_CreatesLayout(t *testing.T) {
	e := testEnv(t)
	r := Project(e)
	if !r.OK {
		t.Fatalf("errors = %v", r.Errors)
	}
	for _, path := range []string{
		".context",
		".archive/completed",
		".archive/deprecated",
		".archive/snapshots",
		"artifacts/prompts",
		"specs",
		"internal/tools",
		"tests",
		".context/ACTIVE.md",
		".context/coding_style.md",
		".context/system_prompt.md",
		"PLAN.md",
		"mission.md",
	} {
		info, err := os.Stat(filepath.Join(e.Root, path))
		if err != nil {
			t.Fatalf("%s not created: %v", path, err)
		}
		if !info.IsDir() && info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestProject_GeneratedActiveIsValid(t *testing.T) {
	e := testEnv(t)
	Project(e)
	c := active.Checker{Now: func() time.Time { return fixedNow }, StaleAfter: 24 * time.Hour}
	r := c.ValidateFile(filepath.Join(e.Root, ".context", "ACTIVE.md"))
	if !r.Valid {
		t.Fatalf("errors = %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("warnings = %v", r.Warnings)
	}
}

func TestProject_GeneratedPlanParses(t *testing.T) {
	e := testEnv(t)
	Project(e)
	res := plan.ParseFile(filepath.Join(e.Root, "PLAN.md"))
	if !res.OK {
		t.Fatalf("errors = %v", res.Errors)
	}
	if res.Plan.Architect != "Jane Doe" || len(res.Plan.Phases) != 1 {
		t.Fatalf("plan = %+v", res.Plan)
	}
}

func TestProject_SkipsExistingFiles(t *testing.T) {
	e := testEnv(t)
	if err := os.WriteFile(filepath.Join(e.Root, "PLAN.md"), []byte("mine"), 0644); err != nil {
		t.Fatal(err)
	}
	r := Project(e)
	if r.OK {
		t.Fatal("expected errors")
	}
	if len(r.Errors) != 1 || !strings.Contains(r.Errors[0], "File already exists (skipped): PLAN.md") {
		t.Fatalf("errors = %v", r.Errors)
	}
	data, _ := os.ReadFile(filepath.Join(e.Root, "PLAN.md"))
	if string(data) != "mine" {
		t.Fatal("existing PLAN.md was overwritten")
	}
}

func TestInit_FailsWhenNothingToCreate(t *testing.T) {
	e := testEnv(t)
	Project(e)
	err := Init(e)
	if err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("got %v", err)
	}
}

func TestTool_GeneratesParsableGo(t *testing.T) {
	e := testEnv(t)
	files, err := Tool(e, "plan_stats", "counts workstreams per phase.", []string{"count_phases", "summary"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0] != "internal/tools/plan_stats/plan_stats.go" {
		t.Fatalf("files = %v", files)
	}
	fset := token.NewFileSet()
	for _, f := range files {
		if _, err := parser.ParseFile(fset, filepath.Join(e.Root, f), nil, 0); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
	}
	src, _ := os.ReadFile(filepath.Join(e.Root, files[0]))
	for _, want := range []string{"package plan_stats", "func CountPhases(args map[string]any) (string, error)", "func Summary("} {
		if !strings.Contains(string(src), want) {
			t.Errorf("source missing %q", want)
		}
	}
}

func TestTool_Errors(t *testing.T) {
	e := testEnv(t)
	tests := []struct {
		name  string
		tool  string
		funcs []string
		want  string
	}{
		{"bad name", "Plan-Stats", []string{"a"}, "invalid tool name"},
		{"keyword", "func", []string{"a"}, "invalid tool name"},
		{"no funcs", "stats", nil, "at least one function"},
		{"bad func", "stats", []string{"9lives"}, "invalid function name"},
		{"duplicate", "stats", []string{"run", "Run"}, "duplicate function name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tool(e, tt.tool, "", tt.funcs)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("got %v, want %q", err, tt.want)
			}
		})
	}
}

func TestTool_RefusesExisting(t *testing.T) {
	e := testEnv(t)
	if _, err := Tool(e, "stats", "", []string{"run"}); err != nil {
		t.Fatal(err)
	}
	if _, err := Tool(e, "stats", "", []string{"run"}); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("got %v", err)
	}
}

func TestSpec(t *testing.T) {
	e := testEnv(t)
	rel, err := Spec(e, "protocol", "Sync Protocol", "")
	if err != nil {
		t.Fatal(err)
	}
	if rel != "specs/protocol.md" {
		t.Fatalf("rel = %q", rel)
	}
	data, _ := os.ReadFile(filepath.Join(e.Root, rel))
	for _, want := range []string{"# Sync Protocol", "**Version:** v1.0", "**Created:** 2026-03-10", "| v1.0 | 2026-03-10 |"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("spec missing %q", want)
		}
	}
	if _, err := Spec(e, "protocol", "again", ""); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
}

func TestWorkstream(t *testing.T) {
	e := testEnv(t)
	rel, err := Workstream(e, WorkstreamPrompt{
		ID:           "3.1",
		Title:        "Change Watch-dog",
		Role:         "a systems engineer",
		Model:        "sonnet",
		Deliverables: []string{"internal/watch/scan.go", "internal/watch/scan_test.go"},
		Dependencies: []string{"2.1", "2.2"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rel != "artifacts/prompts/phase3_ws1_change_watch_dog.md" {
		t.Fatalf("rel = %q", rel)
	}
	data, _ := os.ReadFile(filepath.Join(e.Root, rel))
	text := string(data)
	for _, want := range []string{
		"**Dependency:** Workstream 2.1, Workstream 2.2",
		"- [ ] `internal/watch/scan.go`\n- [ ] `internal/watch/scan_test.go`\n",
		"Report to Architect: Change Watch-dog completed",
		"You are a systems engineer. Recommended model: sonnet",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q\n%s", want, text)
		}
	}
}

func TestWorkstream_InvalidID(t *testing.T) {
	e := testEnv(t)
	for _, id := range []string{"3", "3.1.2", "a.b", ""} {
		if _, err := Workstream(e, WorkstreamPrompt{ID: id, Title: "x"}); err == nil || !strings.Contains(err.Error(), "expected P.W") {
			t.Errorf("%q: got %v", id, err)
		}
	}
}
