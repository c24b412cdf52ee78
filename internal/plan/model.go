package plan

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Status is the lifecycle state of a workstream.
type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusBlocked    Status = "BLOCKED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

var statuses = []Status{StatusPlanned, StatusInProgress, StatusBlocked, StatusCompleted, StatusCancelled}

// ParseStatus accepts a status name in any case, with '-' or ' ' in place of '_'.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, st := range statuses {
		if string(st) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want one of PLANNED, IN_PROGRESS, BLOCKED, COMPLETED, CANCELLED)", s)
}

// ParseAssignments reads "id=STATUS" pairs, as given on the command line.
func ParseAssignments(items []string) (map[string]Status, error) {
	out := make(map[string]Status, len(items))
	for _, item := range items {
		id, raw, ok := strings.Cut(item, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid status assignment %q: expected id=STATUS", item)
		}
		s, err := ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("workstream %s: %w", id, err)
		}
		out[id] = s
	}
	return out, nil
}

// ErrWorkstreamNotFound is returned when an ID does not resolve in the plan.
var ErrWorkstreamNotFound = errors.New("not found in PLAN.md")

// Workstream is a unit of work inside a phase.
type Workstream struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Role         string   `json:"role,omitempty"`
	Model        string   `json:"model,omitempty"`
	Deliverables []string `json:"deliverables"`
	Dependencies []string `json:"dependencies"`
	Blocks       []string `json:"blocks"`
	Status       Status   `json:"status"`
}

// Label renders the workstream the way ACTIVE.md lists it.
func (w *Workstream) Label() string {
	return fmt.Sprintf("Workstream %s: %s", w.ID, w.Title)
}

// Phase is an ordered group of workstreams.
type Phase struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Duration    string       `json:"duration,omitempty"`
	Goal        string       `json:"goal,omitempty"`
	Workstreams []Workstream `json:"workstreams"`
}

// Plan is the parsed form of PLAN.md.
type Plan struct {
	Architect        string            `json:"architect,omitempty"`
	StartDate        string            `json:"start_date,omitempty"`
	TargetCompletion string            `json:"target_completion,omitempty"`
	Status           string            `json:"status,omitempty"`
	Header           map[string]string `json:"header,omitempty"`
	Phases           []Phase           `json:"phases"`
}

// Workstream finds a workstream by ID.
func (p *Plan) Workstream(id string) (*Workstream, *Phase) {
	for i := range p.Phases {
		ph := &p.Phases[i]
		for j := range ph.Workstreams {
			if ph.Workstreams[j].ID == id {
				return &ph.Workstreams[j], ph
			}
		}
	}
	return nil, nil
}

// Phase finds a phase by ID.
func (p *Plan) Phase(id int) *Phase {
	for i := range p.Phases {
		if p.Phases[i].ID == id {
			return &p.Phases[i]
		}
	}
	return nil
}

// Workstreams returns every workstream in document order.
func (p *Plan) Workstreams() []*Workstream {
	var out []*Workstream
	for i := range p.Phases {
		for j := range p.Phases[i].Workstreams {
			out = append(out, &p.Phases[i].Workstreams[j])
		}
	}
	return out
}

// IDs returns the set of workstream IDs in the plan.
func (p *Plan) IDs() map[string]bool {
	ids := make(map[string]bool)
	for _, ws := range p.Workstreams() {
		ids[ws.ID] = true
	}
	return ids
}

// ApplyStatuses sets workstream statuses from an external source. IDs that
// do not resolve are returned.
func (p *Plan) ApplyStatuses(st map[string]Status) []string {
	var missing []string
	for id, s := range st {
		ws, _ := p.Workstream(id)
		if ws == nil {
			missing = append(missing, id)
			continue
		}
		ws.Status = s
	}
	sort.Strings(missing)
	return missing
}
