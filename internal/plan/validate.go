package plan

import (
	"fmt"
	"strings"
)

// Validation is the verdict of Validate. Warnings never affect Valid.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateFile parses and validates the plan at path. Items the parser
// skipped are reported as warnings.
func ValidateFile(path string) Validation {
	res := ParseFile(path)
	if !res.OK {
		return Validation{Errors: res.Errors, Warnings: []string{}}
	}
	v := Validate(res.Plan)
	for _, e := range res.Errors {
		v.Warnings = append(v.Warnings, "skipped: "+e)
	}
	return v
}

// Validate checks references, cycles and deliverables.
func Validate(p *Plan) Validation {
	v := Validation{Errors: []string{}, Warnings: []string{}}
	if p == nil {
		v.Errors = append(v.Errors, "no plan to validate")
		return v
	}
	ids := p.IDs()

	for _, ws := range p.Workstreams() {
		for _, dep := range ws.Dependencies {
			if !ids[dep] {
				v.Errors = append(v.Errors, fmt.Sprintf("Workstream %s depends on non-existent Workstream %s", ws.ID, dep))
			}
		}
	}

	for _, ws := range p.Workstreams() {
		for _, b := range ws.Blocks {
			if !ids[b] {
				v.Warnings = append(v.Warnings, fmt.Sprintf("Workstream %s claims to block non-existent Workstream %s", ws.ID, b))
			}
		}
	}

	for _, cycle := range Cycles(p) {
		v.Errors = append(v.Errors, "Circular dependency detected: "+strings.Join(cycle, " → "))
	}

	for _, ws := range p.Workstreams() {
		if len(ws.Deliverables) == 0 {
			v.Warnings = append(v.Warnings, fmt.Sprintf("Workstream %s has no deliverables", ws.ID))
		}
	}

	v.Valid = len(v.Errors) == 0
	return v
}

// Cycles returns dependency cycles as ID paths that start and end on the
// same workstream. A depth-first walk starts from every workstream in
// document order; a cycle is a reappearance on the current path only.
// Nodes whose subgraph has been fully explored are not walked again, and
// unresolved dependency IDs end their branch.
func Cycles(p *Plan) [][]string {
	if p == nil {
		return nil
	}
	deps := make(map[string][]string)
	for _, ws := range p.Workstreams() {
		deps[ws.ID] = ws.Dependencies
	}

	var cycles [][]string
	done := make(map[string]bool)
	onPath := make(map[string]int)
	var path []string

	var walk func(id string)
	walk = func(id string) {
		if at, ok := onPath[id]; ok {
			cycle := append(append([]string{}, path[at:]...), id)
			cycles = append(cycles, cycle)
			return
		}
		if done[id] {
			return
		}
		next, ok := deps[id]
		if !ok {
			return
		}
		onPath[id] = len(path)
		path = append(path, id)
		for _, d := range next {
			walk(d)
		}
		path = path[:len(path)-1]
		delete(onPath, id)
		done[id] = true
	}

	for _, ws := range p.Workstreams() {
		walk(ws.ID)
	}
	return cycles
}
