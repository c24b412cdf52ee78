package watch

import (
	"sort"
	"strings"

	"github.com/jorge-barreto/grav/internal/plan"
)

// Confidence levels of a path to workstream association.
const (
	DirectConfidence    = 1.0
	DirectoryConfidence = 0.8
	nestedFactor        = 0.9
	maxRelated          = 3
)

// dirMentions mark a prose deliverable as naming a directory.
var dirMentions = []string{"src/", "tests/", "specs/", "internal/", "cmd/"}

// Match associates a path with a workstream.
type Match struct {
	ID         string  `json:"workstream_id"`
	Confidence float64 `json:"confidence"`
}

// Map associates deliverable paths with the workstreams naming them.
type Map map[string][]Match

// BuildMap derives the map from every workstream's deliverables.
func BuildMap(p *plan.Plan) Map {
	m := Map{}
	if p == nil {
		return m
	}
	for _, ws := range p.Workstreams() {
		for _, d := range ws.Deliverables {
			if strings.ContainsAny(d, `/\`) {
				path := strings.TrimSpace(strings.Trim(strings.TrimSpace(d), "`"))
				m[path] = append(m[path], Match{ws.ID, DirectConfidence})
			}
			if !mentionsDir(d) {
				continue
			}
			for _, part := range strings.Fields(d) {
				if !strings.Contains(part, "/") || strings.HasPrefix(part, "http") {
					continue
				}
				dir := strings.TrimRight(strings.Trim(part, "`"), "/")
				if dir == "" {
					continue
				}
				m[dir] = append(m[dir], Match{ws.ID, DirectoryConfidence})
			}
		}
	}
	return m
}

func mentionsDir(s string) bool {
	for _, d := range dirMentions {
		if strings.Contains(s, d) {
			return true
		}
	}
	return false
}

// Related returns the workstreams a path relates to, best first. Entries
// that contain the path as a directory count at reduced confidence.
func (m Map) Related(path string) []Match {
	best := map[string]float64{}
	add := func(id string, c float64) {
		if c > best[id] {
			best[id] = c
		}
	}
	for _, mt := range m[path] {
		add(mt.ID, mt.Confidence)
	}
	for key, matches := range m {
		if key != path && !strings.HasPrefix(path, key+"/") {
			continue
		}
		for _, mt := range matches {
			add(mt.ID, mt.Confidence*nestedFactor)
		}
	}

	out := make([]Match, 0, len(best))
	for id, c := range best {
		out = append(out, Match{id, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].ID < out[j].ID
	})
	return out
}
