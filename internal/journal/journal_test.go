package journal

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), ".context", "grav.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestLastCheck_Empty(t *testing.T) {
	j := openTemp(t)
	c, err := j.LastCheck(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Fatalf("expected no check, got %+v", c)
	}
}

func TestRecordCheck_RoundTrip(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)
	t1 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	if _, err := j.RecordCheck(ctx, t1, nil); err != nil {
		t.Fatal(err)
	}
	id, err := j.RecordCheck(ctx, t2, []Change{
		{Path: "internal/plan/parse.go", Type: "modified", ModifiedAt: t2, Size: 120, Workstreams: []string{"1.2", "2.1"}},
		{Path: "specs/protocol.md", Type: "created", ModifiedAt: t2},
	})
	if err != nil {
		t.Fatal(err)
	}

	last, err := j.LastCheck(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last.ID != id || !last.CheckedAt.Equal(t2) || last.Changes != 2 {
		t.Fatalf("last = %+v", last)
	}

	changes, err := j.Changes(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 2 {
		t.Fatalf("changes = %+v", changes)
	}
	if strings.Join(changes[0].Workstreams, ",") != "1.2,2.1" || changes[0].Size != 120 {
		t.Fatalf("first change = %+v", changes[0])
	}
	if changes[1].Workstreams != nil {
		t.Fatalf("second change workstreams = %v", changes[1].Workstreams)
	}

	checks, err := j.Checks(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(checks) != 2 || checks[0].ID != id {
		t.Fatalf("checks = %+v", checks)
	}
}

func TestOpen_DriverError(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.db"))
	if err == nil || !strings.Contains(err.Error(), "journal: open database") {
		t.Fatalf("got %v", err)
	}
}
