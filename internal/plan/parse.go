// Package plan parses PLAN.md into phases and workstreams, validates the
// dependency graph and rewrites workstream checklist markers.
package plan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jorge-barreto/grav/internal/state"
)

var idRe = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Result is the outcome of parsing a plan document. Errors lists items that
// were skipped; they do not clear OK.
type Result struct {
	OK     bool     `json:"success"`
	Plan   *Plan    `json:"plan"`
	Errors []string `json:"errors"`
	Raw    string   `json:"-"`
}

// ParseFile reads and parses the plan at path.
func ParseFile(path string) Result {
	text, err := state.ReadDocument(path)
	if err != nil {
		return Result{Errors: []string{state.DescribeReadError(path, err)}}
	}
	return Parse(text)
}

// Parse builds a Plan from document text. Every workstream starts PLANNED.
func Parse(text string) Result {
	res := Result{OK: true, Raw: text, Errors: []string{}}
	norm := strings.ReplaceAll(text, "\r\n", "\n")

	p := &Plan{Header: headerFields(preamble(norm)), Phases: []Phase{}}
	p.Architect = p.Header["architect"]
	p.StartDate = p.Header["start_date"]
	p.TargetCompletion = p.Header["target_completion"]
	p.Status = p.Header["status"]

	for _, ps := range split(phaseRe, norm, 1) {
		id, err := strconv.Atoi(ps.ID)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: phase %q: invalid phase number: %v", ps.Line, ps.ID, err))
			continue
		}
		ph := Phase{
			ID:          id,
			Title:       ps.Title,
			Duration:    firstMatch(durationRe, ps.Body),
			Goal:        firstMatch(goalRe, ps.Body),
			Workstreams: []Workstream{},
		}
		for _, ws := range split(workstreamRe, ps.Body, ps.Line) {
			w, err := buildWorkstream(ws)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("line %d: phase %d: %v", ws.Line, id, err))
				continue
			}
			ph.Workstreams = append(ph.Workstreams, w)
		}
		p.Phases = append(p.Phases, ph)
	}

	res.Plan = p
	return res
}

func buildWorkstream(s section) (Workstream, error) {
	if !idRe.MatchString(s.ID) {
		return Workstream{}, fmt.Errorf("workstream %q: invalid ID (expected dotted digits like 1.2)", s.ID)
	}
	f := extractFields(s.Body)
	return Workstream{
		ID:           s.ID,
		Title:        s.Title,
		Role:         f.Role,
		Model:        f.Model,
		Deliverables: f.Deliverables,
		Dependencies: f.Dependencies,
		Blocks:       f.Blocks,
		Status:       StatusPlanned,
	}, nil
}
