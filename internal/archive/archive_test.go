package archive

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".context"), 0755); err != nil {
		t.Fatal(err)
	}
	for name, body := range map[string]string{
		"PLAN.md":            "# Plan\n",
		".context/ACTIVE.md": "---\nproject_name: x\n---\n",
		"specs/old.md":       "# Old spec\n",
	} {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	m := New(root, filepath.Join(root, ".archive"), "PLAN.md", ".context/ACTIVE.md")
	m.Now = func() time.Time { return fixedNow }
	return m, root
}

func TestComplete_MovesAndWritesMeta(t *testing.T) {
	m, root := setup(t)
	dest, err := m.Complete("specs/old.md", "phase 1 done")
	if err != nil {
		t.Fatal(err)
	}
	if dest != ".archive/completed/old.md" {
		t.Fatalf("dest = %q", dest)
	}
	if _, err := os.Stat(filepath.Join(root, "specs", "old.md")); !os.IsNotExist(err) {
		t.Fatal("source should be moved")
	}
	data, err := os.ReadFile(filepath.Join(root, dest+".meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.OriginalPath != "specs/old.md" || meta.Reason != "phase 1 done" || meta.ID == "" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.ArchiveDate != "2026-04-01T09:30:00Z" {
		t.Fatalf("date = %q", meta.ArchiveDate)
	}
}

func TestComplete_NameConflictGetsTimestamp(t *testing.T) {
	m, root := setup(t)
	if _, err := m.Complete("specs/old.md", "first"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "specs", "old.md"), []byte("again"), 0644); err != nil {
		t.Fatal(err)
	}
	dest, err := m.Complete("specs/old.md", "second")
	if err != nil {
		t.Fatal(err)
	}
	if dest != ".archive/completed/old.md_20260401_093000" {
		t.Fatalf("dest = %q", dest)
	}
}

func TestComplete_MissingSource(t *testing.T) {
	m, _ := setup(t)
	if _, err := m.Complete("nope.md", "x"); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("got %v", err)
	}
}

func TestDeprecate_Directory(t *testing.T) {
	m, root := setup(t)
	dir := filepath.Join(root, "internal", "legacy")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	dest, err := m.Deprecate("internal/legacy", "", "internal/plan")
	if err != nil {
		t.Fatal(err)
	}
	items, err := m.List(Deprecated)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Path != dest || items[0].Meta == nil {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Meta.Replacement != "internal/plan" || items[0].Meta.Reason != "Deprecated" {
		t.Fatalf("meta = %+v", items[0].Meta)
	}
}

func TestTakeSnapshot(t *testing.T) {
	m, root := setup(t)
	dir, copied, err := m.TakeSnapshot("pre-release")
	if err != nil {
		t.Fatal(err)
	}
	if dir != ".archive/snapshots/pre-release_20260401_093000" {
		t.Fatalf("dir = %q", dir)
	}
	if strings.Join(copied, ",") != "PLAN.md,ACTIVE.md" {
		t.Fatalf("copied = %v", copied)
	}
	for _, f := range copied {
		if _, err := os.Stat(filepath.Join(root, dir, f)); err != nil {
			t.Fatalf("%s not copied: %v", f, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "PLAN.md")); err != nil {
		t.Fatal("snapshot must copy, not move")
	}
}

func TestTakeSnapshot_InvalidLabel(t *testing.T) {
	m, _ := setup(t)
	if _, _, err := m.TakeSnapshot("../escape"); err == nil {
		t.Fatal("expected error")
	}
}

func TestList_SkipsKeepAndSidecars(t *testing.T) {
	m, root := setup(t)
	if err := m.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".archive", "completed", ".keep"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Complete("specs/old.md", "done"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.TakeSnapshot("s"); err != nil {
		t.Fatal(err)
	}
	items, err := m.List(All)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Category != Completed || items[1].Category != Snapshots {
		t.Fatalf("order = %+v", items)
	}
	if items[1].Meta != nil || items[1].MetaErr != "" {
		t.Fatalf("snapshot should have no meta: %+v", items[1])
	}
}

func TestList_InvalidCategory(t *testing.T) {
	m, _ := setup(t)
	if _, err := m.List("trash"); err == nil || !strings.Contains(err.Error(), "invalid category") {
		t.Fatalf("got %v", err)
	}
}

func TestRestore(t *testing.T) {
	m, root := setup(t)
	dest, err := m.Complete("specs/old.md", "done")
	if err != nil {
		t.Fatal(err)
	}
	orig, err := m.Restore(dest)
	if err != nil {
		t.Fatal(err)
	}
	if orig != "specs/old.md" {
		t.Fatalf("orig = %q", orig)
	}
	if _, err := os.Stat(filepath.Join(root, "specs", "old.md")); err != nil {
		t.Fatal("file not restored")
	}
	if _, err := os.Stat(filepath.Join(root, dest+".meta.json")); !os.IsNotExist(err) {
		t.Fatal("sidecar should be removed")
	}
}

func TestRestore_RefusesOverwrite(t *testing.T) {
	m, root := setup(t)
	dest, _ := m.Complete("specs/old.md", "done")
	if err := os.WriteFile(filepath.Join(root, "specs", "old.md"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Restore(dest); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("got %v", err)
	}
}

func TestRestore_NoMetadata(t *testing.T) {
	m, root := setup(t)
	dir, _, _ := m.TakeSnapshot("s")
	_, err := m.Restore(filepath.Join(root, dir))
	if !errors.Is(err, ErrNoMetadata) {
		t.Fatalf("got %v", err)
	}
}
