// Package synccheck reconciles workstream status in PLAN.md with the
// membership lists recorded in ACTIVE.md.
package synccheck

import (
	"fmt"
	"strings"

	"github.com/jorge-barreto/grav/internal/active"
	"github.com/jorge-barreto/grav/internal/frontmatter"
	"github.com/jorge-barreto/grav/internal/plan"
)

// DiscrepancyType tags every mismatch between plan status and list membership.
const DiscrepancyType = "workstream_mismatch"

// Discrepancy is one workstream whose plan status is not reflected in ACTIVE.md.
type Discrepancy struct {
	Type           string      `json:"type"`
	WorkstreamID   string      `json:"workstream_id"`
	PlanStatus     plan.Status `json:"plan_status"`
	ActiveStatus   string      `json:"active_status"`
	Recommendation string      `json:"recommendation"`
}

// Report is the outcome of a sync check. InSync is false with only warnings
// when the check could not run.
type Report struct {
	InSync        bool          `json:"in_sync"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	Warnings      []string      `json:"warnings"`
}

// expectation pairs a plan status with the ACTIVE.md list that must hold it.
type expectation struct {
	field string
	items func(active.Lists) []string
}

var expected = map[plan.Status]expectation{
	plan.StatusCompleted:  {active.FieldCompleted, func(l active.Lists) []string { return l.Completed }},
	plan.StatusInProgress: {active.FieldActive, func(l active.Lists) []string { return l.Active }},
	plan.StatusBlocked:    {active.FieldBlocked, func(l active.Lists) []string { return l.Blocked }},
}

// Check compares p against the lists of an Active Context document.
func Check(p *plan.Plan, lists active.Lists) Report {
	if p == nil {
		return couldNotCheck("No plan to check")
	}
	r := Report{Discrepancies: []Discrepancy{}, Warnings: []string{}}
	for _, ws := range p.Workstreams() {
		exp, ok := expected[ws.Status]
		if !ok {
			continue
		}
		if listed(ws, exp.items(lists)) {
			continue
		}
		r.Discrepancies = append(r.Discrepancies, Discrepancy{
			Type:           DiscrepancyType,
			WorkstreamID:   ws.ID,
			PlanStatus:     ws.Status,
			ActiveStatus:   "not in " + exp.field,
			Recommendation: fmt.Sprintf("Add '%s' to %s in ACTIVE.md", ws.Label(), exp.field),
		})
	}
	r.InSync = len(r.Discrepancies) == 0
	return r
}

// listed matches loosely: the ID or the title appearing anywhere in an item.
func listed(ws *plan.Workstream, items []string) bool {
	for _, item := range items {
		if strings.Contains(item, ws.ID) || (ws.Title != "" && strings.Contains(item, ws.Title)) {
			return true
		}
	}
	return false
}

// CheckFiles parses both documents and runs Check. statuses overrides the
// PLANNED default for the listed workstreams.
func CheckFiles(planPath, activePath string, statuses map[string]plan.Status) Report {
	res := plan.ParseFile(planPath)
	if !res.OK {
		return couldNotCheck(fmt.Sprintf("Could not parse PLAN.md: %s", strings.Join(res.Errors, "; ")))
	}
	var unknown []string
	if len(statuses) > 0 {
		unknown = res.Plan.ApplyStatuses(statuses)
	}

	doc := frontmatter.ReadFile(activePath)
	var warnings []string
	switch {
	case !doc.OK && !doc.Found && len(doc.Errors) > 0 && strings.HasPrefix(doc.Errors[0], "File not found"):
		return couldNotCheck("ACTIVE.md not found, cannot verify sync")
	case !doc.Found:
		return couldNotCheck("Could not parse ACTIVE.md YAML frontmatter")
	case !doc.OK && len(doc.Fields) == 0:
		return couldNotCheck("Could not parse ACTIVE.md YAML frontmatter: " + strings.Join(doc.Errors, "; "))
	case !doc.OK:
		// The line scanner recovered the fields the YAML decoder rejected.
		warnings = append(warnings, "ACTIVE.md frontmatter is not valid YAML; lists were read line by line: "+strings.Join(doc.Errors, "; "))
	}

	r := Check(res.Plan, active.ListsOf(doc))
	r.Warnings = append(r.Warnings, warnings...)
	for _, id := range unknown {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Status given for unknown Workstream %s", id))
	}
	return r
}

func couldNotCheck(warning string) Report {
	return Report{Discrepancies: []Discrepancy{}, Warnings: []string{warning}}
}
