package watch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jorge-barreto/grav/internal/active"
)

// maxKeyFiles caps the key_files_modified update.
const maxKeyFiles = 15

// FieldUpdate is a change that can be applied to ACTIVE.md as is.
type FieldUpdate struct {
	Field  string   `json:"field"`
	Action string   `json:"action"`
	Values []string `json:"values"`
}

// Review is a change that needs the architect's judgement.
type Review struct {
	Field  string   `json:"field"`
	Reason string   `json:"reason"`
	Files  []string `json:"files"`
}

// Suggestions are the ACTIVE.md updates implied by a set of changes.
type Suggestions struct {
	Messages []string      `json:"suggestions"`
	Auto     []FieldUpdate `json:"auto_applicable"`
	Manual   []Review      `json:"manual_review"`
}

func under(path, dir string) bool {
	return dir != "" && dir != "." && strings.HasPrefix(path, strings.TrimSuffix(dir, "/")+"/")
}

func isTest(path string) bool {
	return strings.HasPrefix(path, "tests/") || strings.HasSuffix(path, "_test.go")
}

// Suggest classifies recs and fills in each record's related workstreams.
func (d *Detector) Suggest(recs []Record) Suggestions {
	s := Suggestions{Messages: []string{}, Auto: []FieldUpdate{}, Manual: []Review{}}
	if len(recs) == 0 {
		return s
	}

	var keyFiles, testFiles, specFiles, contextFiles []string
	related := map[string]bool{}
	for i := range recs {
		r := &recs[i]
		if d.Map != nil {
			matches := d.Map.Related(r.Path)
			if len(matches) > maxRelated {
				matches = matches[:maxRelated]
			}
			for _, m := range matches {
				r.Workstreams = append(r.Workstreams, m.ID)
				related[m.ID] = true
			}
		}

		switch {
		case isTest(r.Path):
			testFiles = append(testFiles, r.Path)
		case under(r.Path, d.SpecsDir):
			specFiles = append(specFiles, r.Path)
			keyFiles = append(keyFiles, r.Path)
		case under(r.Path, d.ContextDir):
			contextFiles = append(contextFiles, r.Path)
		default:
			for _, k := range d.KeyDirs {
				if under(r.Path, k) {
					keyFiles = append(keyFiles, r.Path)
					break
				}
			}
		}
	}

	if len(keyFiles) > 0 {
		s.Messages = append(s.Messages, fmt.Sprintf("Update %s in ACTIVE.md to include: %s",
			active.FieldKeyFiles, ticked(first(keyFiles, 5))))
		s.Auto = append(s.Auto, FieldUpdate{Field: active.FieldKeyFiles, Action: "append", Values: first(keyFiles, maxKeyFiles)})
	}
	if len(testFiles) > 0 {
		s.Messages = append(s.Messages, fmt.Sprintf("Update %s in ACTIVE.md to reflect new tests: %d test file(s) modified",
			active.FieldIntegration, len(testFiles)))
		s.Manual = append(s.Manual, Review{Field: active.FieldIntegration, Reason: "Test changes detected", Files: testFiles})
	}
	if len(specFiles) > 0 {
		s.Messages = append(s.Messages, fmt.Sprintf("Spec files modified: %s: review for %s updates",
			ticked(specFiles), active.FieldDecisions))
		s.Manual = append(s.Manual, Review{Field: active.FieldDecisions, Reason: "Specification changes may contain new architectural decisions", Files: specFiles})
	}
	if len(contextFiles) > 0 {
		s.Messages = append(s.Messages, fmt.Sprintf("Context files modified: %s: ACTIVE.md may already be updated", ticked(contextFiles)))
	}
	if len(related) > 0 {
		ids := make([]string, 0, len(related))
		for id := range related {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		s.Messages = append(s.Messages, "Changes may relate to workstream(s): "+strings.Join(ids, ", "))
	}
	return s
}

func first(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func ticked(files []string) string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = "`" + f + "`"
	}
	return strings.Join(out, ", ")
}
