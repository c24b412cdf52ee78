package plan

import (
	"regexp"
	"strings"
)

type fieldState int

const (
	stateNone fieldState = iota
	stateDeliverables
)

var (
	metadataRe = regexp.MustCompile(`^\s*-\s+\*\*([^:]+):\*\*\s*(.*)$`)
	listItemRe = regexp.MustCompile(`^\s+-\s+(.+)$`)
	refRe      = regexp.MustCompile(`Workstream\s+(\d+(?:\.\d+)*)`)
)

// fields is what the field machine extracts from one workstream region.
type fields struct {
	Role         string
	Model        string
	Deliverables []string
	Dependencies []string
	Blocks       []string
}

// extractFields runs the field state machine over a workstream region.
func extractFields(body string) fields {
	f := fields{Deliverables: []string{}, Dependencies: []string{}, Blocks: []string{}}
	st := stateNone
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := metadataRe.FindStringSubmatch(line); m != nil {
			st = stateNone
			value := strings.TrimSpace(m[2])
			switch strings.TrimSpace(m[1]) {
			case "Worker Role":
				f.Role = value
			case "Model":
				f.Model = value
			case "Deliverables":
				st = stateDeliverables
				if value != "" {
					f.Deliverables = append(f.Deliverables, value)
				}
			case "Dependencies":
				f.Dependencies = references(value)
			case "Blocks":
				f.Blocks = references(value)
			}
			continue
		}
		if st != stateDeliverables || strings.TrimSpace(line) == "" {
			continue
		}
		if m := listItemRe.FindStringSubmatch(line); m != nil {
			f.Deliverables = append(f.Deliverables, strings.TrimSpace(m[1]))
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			st = stateNone
		}
	}
	return f
}

// references extracts "Workstream <id>" mentions in order, without repeats.
// The literal value "none" in any case means no references.
func references(value string) []string {
	refs := []string{}
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return refs
	}
	seen := make(map[string]bool)
	for _, m := range refRe.FindAllStringSubmatch(value, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			refs = append(refs, m[1])
		}
	}
	return refs
}
