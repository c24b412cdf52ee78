package plan

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jorge-barreto/grav/internal/state"
)

var markerRe = regexp.MustCompile(`\[.\]`)

var statusMarkers = map[Status]string{
	StatusPlanned:    "[ ]",
	StatusInProgress: "[/]",
	StatusBlocked:    "[/]",
	StatusCompleted:  "[x]",
	StatusCancelled:  "[~]",
}

// Marker returns the checklist marker written for s.
func Marker(s Status) string {
	return statusMarkers[s]
}

// markerStatus maps the character inside a checklist marker back to a
// status. "[/]" reads as IN_PROGRESS since BLOCKED shares the marker.
func markerStatus(c byte) (Status, bool) {
	switch c {
	case ' ':
		return StatusPlanned, true
	case '/':
		return StatusInProgress, true
	case 'x', 'X':
		return StatusCompleted, true
	case '~':
		return StatusCancelled, true
	}
	return "", false
}

// StatusUpdate is the outcome of UpdateStatus.
type StatusUpdate struct {
	OK           bool     `json:"success"`
	ID           string   `json:"workstream_id"`
	OldStatus    Status   `json:"old_status"`
	NewStatus    Status   `json:"new_status"`
	UpdatedLines int      `json:"updated_lines"`
	Errors       []string `json:"errors"`
}

// UpdateStatus rewrites the checklist markers on every line of the plan at
// path that mentions "Workstream <id>". The file is rewritten atomically and
// only when at least one line changed.
func UpdateStatus(path, id string, s Status) StatusUpdate {
	up := StatusUpdate{ID: id, NewStatus: s, Errors: []string{}}
	marker, ok := statusMarkers[s]
	if !ok {
		up.Errors = append(up.Errors, fmt.Sprintf("unknown status %q", s))
		return up
	}
	text, err := state.ReadDocument(path)
	if err != nil {
		up.Errors = append(up.Errors, state.DescribeReadError(path, err))
		return up
	}
	res := Parse(text)
	ws, _ := res.Plan.Workstream(id)
	if ws == nil {
		up.Errors = append(up.Errors, fmt.Sprintf("Workstream %s not found in PLAN.md", id))
		return up
	}
	up.OldStatus = ws.Status

	lines := strings.Split(text, "\n")
	found := false
	for i, line := range lines {
		if !mentions(line, id) {
			continue
		}
		loc := markerRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if !found {
			if old, ok := markerStatus(line[loc[0]+1]); ok {
				up.OldStatus = old
			}
			found = true
		}
		updated := markerRe.ReplaceAllLiteralString(line, marker)
		if updated != line {
			lines[i] = updated
		}
		up.UpdatedLines++
	}

	if up.UpdatedLines > 0 {
		perm := os.FileMode(0644)
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := state.WriteFileAtomic(path, []byte(strings.Join(lines, "\n")), perm); err != nil {
			up.Errors = append(up.Errors, fmt.Sprintf("writing %s: %v", path, err))
			return up
		}
	}
	up.OK = true
	return up
}

// StatusesFromMarkers reads statuses back from checklist lines that mention
// a workstream. It is an explicit input channel: Parse never calls it.
func StatusesFromMarkers(text string) map[string]Status {
	out := make(map[string]Status)
	for _, line := range strings.Split(text, "\n") {
		loc := markerRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		s, ok := markerStatus(line[loc[0]+1])
		if !ok {
			continue
		}
		for _, m := range refRe.FindAllStringSubmatch(line, -1) {
			out[m[1]] = s
		}
	}
	return out
}

// mentions reports whether line contains "Workstream <id>" not followed by
// further ID digits, so 1.1 does not match a line about 1.10.
func mentions(line, id string) bool {
	needle := "Workstream " + id
	for off := 0; ; {
		i := strings.Index(line[off:], needle)
		if i < 0 {
			return false
		}
		end := off + i + len(needle)
		if end == len(line) || !continuesID(line[end:]) {
			return true
		}
		off = end
	}
}

func continuesID(rest string) bool {
	if rest[0] >= '0' && rest[0] <= '9' {
		return true
	}
	return rest[0] == '.' && len(rest) > 1 && rest[1] >= '0' && rest[1] <= '9'
}
