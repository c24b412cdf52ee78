package plan

import (
	"fmt"
	"strings"
)

// PhaseSummary is the phase-level context handed to a worker.
type PhaseSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
	Goal     string `json:"goal,omitempty"`
}

// WorkerContext is everything a worker needs to start a workstream.
type WorkerContext struct {
	Workstream   Workstream   `json:"workstream"`
	Phase        PhaseSummary `json:"phase_context"`
	Dependencies []Workstream `json:"dependency_details"`
	Blocks       []Workstream `json:"blocks_details"`
	Unresolved   []string     `json:"unresolved,omitempty"`
}

// Context assembles the worker context for id.
func (p *Plan) Context(id string) (*WorkerContext, error) {
	ws, ph := p.Workstream(id)
	if ws == nil {
		return nil, fmt.Errorf("Workstream %s %w", id, ErrWorkstreamNotFound)
	}
	wc := &WorkerContext{
		Workstream:   *ws,
		Phase:        PhaseSummary{ID: ph.ID, Title: ph.Title, Duration: ph.Duration, Goal: ph.Goal},
		Dependencies: []Workstream{},
		Blocks:       []Workstream{},
	}
	for _, d := range ws.Dependencies {
		if dep, _ := p.Workstream(d); dep != nil {
			wc.Dependencies = append(wc.Dependencies, *dep)
		} else {
			wc.Unresolved = append(wc.Unresolved, d)
		}
	}
	for _, b := range ws.Blocks {
		if blk, _ := p.Workstream(b); blk != nil {
			wc.Blocks = append(wc.Blocks, *blk)
		} else {
			wc.Unresolved = append(wc.Unresolved, b)
		}
	}
	return wc, nil
}

// Markdown renders the context as a brief for a worker prompt.
func (wc *WorkerContext) Markdown() string {
	var b strings.Builder
	ws := wc.Workstream
	fmt.Fprintf(&b, "# %s\n\n", ws.Label())
	fmt.Fprintf(&b, "**Phase %d:** %s\n", wc.Phase.ID, wc.Phase.Title)
	if wc.Phase.Duration != "" {
		fmt.Fprintf(&b, "**Duration:** %s\n", wc.Phase.Duration)
	}
	if wc.Phase.Goal != "" {
		fmt.Fprintf(&b, "**Goal:** %s\n", wc.Phase.Goal)
	}
	if ws.Role != "" {
		fmt.Fprintf(&b, "**Worker Role:** %s\n", ws.Role)
	}
	if ws.Model != "" {
		fmt.Fprintf(&b, "**Model:** %s\n", ws.Model)
	}
	fmt.Fprintf(&b, "**Status:** %s\n", ws.Status)

	b.WriteString("\n## Deliverables\n\n")
	if len(ws.Deliverables) == 0 {
		b.WriteString("(none declared)\n")
	}
	for _, d := range ws.Deliverables {
		fmt.Fprintf(&b, "- [ ] %s\n", d)
	}

	writeRefs := func(title string, list []Workstream) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n\n", title)
		for _, w := range list {
			fmt.Fprintf(&b, "- %s (%s)\n", w.Label(), w.Status)
		}
	}
	writeRefs("Depends On", wc.Dependencies)
	writeRefs("Blocks", wc.Blocks)
	if len(wc.Unresolved) > 0 {
		fmt.Fprintf(&b, "\nUnresolved references: %s\n", strings.Join(wc.Unresolved, ", "))
	}
	return b.String()
}
