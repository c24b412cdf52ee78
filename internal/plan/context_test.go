package plan

import (
	"errors"
	"strings"
	"testing"
)

func TestContext_Resolves(t *testing.T) {
	p := mustParse(t, samplePlan)
	wc, err := p.Context("1.2")
	if err != nil {
		t.Fatal(err)
	}
	if wc.Workstream.ID != "1.2" || wc.Phase.ID != 1 || wc.Phase.Goal != "Agree on the protocol" {
		t.Fatalf("wc = %+v", wc)
	}
	if len(wc.Dependencies) != 1 || wc.Dependencies[0].ID != "1.1" {
		t.Fatalf("dependencies = %+v", wc.Dependencies)
	}
	if len(wc.Blocks) != 0 {
		t.Fatalf("blocks = %+v", wc.Blocks)
	}
}

func TestContext_NotFound(t *testing.T) {
	p := mustParse(t, samplePlan)
	_, err := p.Context("5.5")
	if !errors.Is(err, ErrWorkstreamNotFound) {
		t.Fatalf("got %v", err)
	}
	if err.Error() != "Workstream 5.5 not found in PLAN.md" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestContext_Unresolved(t *testing.T) {
	p := planOf(ws("1.1", "3.3"))
	wc, err := p.Context("1.1")
	if err != nil {
		t.Fatal(err)
	}
	if len(wc.Unresolved) != 1 || wc.Unresolved[0] != "3.3" {
		t.Fatalf("unresolved = %v", wc.Unresolved)
	}
}

func TestContext_Markdown(t *testing.T) {
	p := mustParse(t, samplePlan)
	wc, _ := p.Context("1.1")
	md := wc.Markdown()
	for _, want := range []string{
		"# Workstream 1.1: Protocol Design",
		"**Phase 1:** Foundation",
		"- [ ] `specs/protocol.md`",
		"## Blocks",
		"Workstream 1.2: Implementation (PLANNED)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
