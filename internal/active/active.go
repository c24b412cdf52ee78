// Package active validates the Active Context document (.context/ACTIVE.md)
// and exposes its workstream membership lists.
package active

import (
	"fmt"
	"time"

	"github.com/jorge-barreto/grav/internal/frontmatter"
	"github.com/jorge-barreto/grav/internal/state"
)

// Field names of the Active Context frontmatter.
const (
	FieldProjectName   = "project_name"
	FieldMission       = "mission_summary"
	FieldCurrentPhase  = "current_phase"
	FieldActive        = "active_workstreams"
	FieldBlocked       = "blocked_workstreams"
	FieldCompleted     = "completed_workstreams"
	FieldArchitectedAt = "last_architect_update"
	FieldWorkedAt      = "last_worker_update"
	FieldDecisions     = "critical_decisions"
	FieldKeyFiles      = "key_files_modified"
	FieldIntegration   = "integration_status"
	FieldMilestone     = "next_milestone"
	FieldRisks         = "risk_alerts"
)

// Field-count policy for the frontmatter block.
const (
	SoftFieldLimit = 13
	HardFieldLimit = 15
)

type kind int

const (
	text kind = iota
	list
	timestamp
)

type fieldSpec struct {
	name     string
	kind     kind
	required bool
	maxLen   int
}

var schema = []fieldSpec{
	{FieldProjectName, text, true, 100},
	{FieldMission, text, true, 200},
	{FieldCurrentPhase, text, true, 0},
	{FieldActive, list, false, 0},
	{FieldBlocked, list, false, 0},
	{FieldCompleted, list, false, 0},
	{FieldArchitectedAt, timestamp, true, 0},
	{FieldWorkedAt, timestamp, true, 0},
	{FieldDecisions, list, false, 0},
	{FieldKeyFiles, list, false, 0},
	{FieldIntegration, text, true, 0},
	{FieldMilestone, text, true, 0},
	{FieldRisks, list, false, 0},
}

// Lists are the three membership lists, kept as the literal strings the
// document holds.
type Lists struct {
	Active    []string `json:"active_workstreams"`
	Blocked   []string `json:"blocked_workstreams"`
	Completed []string `json:"completed_workstreams"`
}

// ListsOf extracts the membership lists from a parsed document.
func ListsOf(doc frontmatter.Document) Lists {
	return Lists{
		Active:    doc.Fields.List(FieldActive),
		Blocked:   doc.Fields.List(FieldBlocked),
		Completed: doc.Fields.List(FieldCompleted),
	}
}

// Report is the result of validating an Active Context document.
type Report struct {
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	FieldCount     int      `json:"field_count"`
	StalenessHours float64  `json:"staleness_hours"`
}

// Checker validates Active Context documents against the schema and the
// staleness policy.
type Checker struct {
	Now        func() time.Time
	StaleAfter time.Duration
	AlertAfter time.Duration
}

// DefaultChecker uses the wall clock with 24h/48h thresholds.
var DefaultChecker = Checker{Now: time.Now, StaleAfter: 24 * time.Hour, AlertAfter: 48 * time.Hour}

func (c Checker) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// ValidateFile reads and validates the document at path.
func (c Checker) ValidateFile(path string) Report {
	return c.Validate(frontmatter.ReadFile(path))
}

// Validate checks field count, schema and staleness of doc.
func (c Checker) Validate(doc frontmatter.Document) Report {
	r := Report{Errors: []string{}, Warnings: []string{}}
	if !doc.OK {
		r.Errors = append(r.Errors, doc.Errors...)
		return r
	}
	if !doc.Found {
		r.Errors = append(r.Errors, "ACTIVE.md has no frontmatter block")
		return r
	}

	r.FieldCount = len(doc.Fields)
	switch {
	case r.FieldCount > HardFieldLimit:
		r.Errors = append(r.Errors, fmt.Sprintf("Field count exceeds protocol limit (%d): %d", HardFieldLimit, r.FieldCount))
	case r.FieldCount > SoftFieldLimit:
		r.Warnings = append(r.Warnings, fmt.Sprintf("Field count approaching protocol limit (%d): %d", HardFieldLimit, r.FieldCount))
	}

	known := make(map[string]bool, len(schema))
	for _, spec := range schema {
		known[spec.name] = true
		if err := checkField(doc.Fields, spec); err != "" {
			r.Errors = append(r.Errors, err)
		}
	}
	for _, k := range doc.Keys {
		if !known[k] {
			r.Warnings = append(r.Warnings, fmt.Sprintf("Unrecognized field: %s", k))
		}
	}

	st := c.Staleness(doc)
	if st.OK {
		r.StalenessHours = st.HoursSinceLast
		if st.Stale {
			r.Warnings = append(r.Warnings, fmt.Sprintf("ACTIVE.md is stale (%.1f hours since last update)", st.HoursSinceLast))
		}
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func checkField(f frontmatter.Fields, spec fieldSpec) string {
	if !f.Has(spec.name) {
		if spec.required {
			return fmt.Sprintf("%s: field required", spec.name)
		}
		return ""
	}
	switch spec.kind {
	case list:
		if !f.IsList(spec.name) && f[spec.name] != nil {
			return fmt.Sprintf("%s: expected a list", spec.name)
		}
	case text, timestamp:
		if f[spec.name] == nil || f.IsList(spec.name) || f.IsMap(spec.name) {
			return fmt.Sprintf("%s: expected a string", spec.name)
		}
		v := f.String(spec.name)
		if spec.maxLen > 0 && len([]rune(v)) > spec.maxLen {
			return fmt.Sprintf("%s: longer than %d characters", spec.name, spec.maxLen)
		}
		if spec.kind == timestamp {
			if _, err := ParseTimestamp(v); err != nil {
				return fmt.Sprintf("%s: %v", spec.name, err)
			}
		}
	}
	return ""
}

// Touch stamps the architect or worker update time in the document at path.
func Touch(path, role string, now time.Time) error {
	var key string
	switch role {
	case "architect":
		key = FieldArchitectedAt
	case "worker":
		key = FieldWorkedAt
	default:
		return fmt.Errorf("unknown role %q (want architect or worker)", role)
	}
	text, err := state.ReadDocument(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	out, err := frontmatter.SetScalar(text, key, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("updating %s: %w", key, err)
	}
	return state.WriteFileAtomic(path, []byte(out), 0644)
}
