package plan

import (
	"regexp"
	"strings"
)

// Boundary patterns. Each marker owns the text up to the next marker of the
// same level.
var (
	phaseRe      = regexp.MustCompile(`(?m)^## Phase (\d+): (.+)$`)
	workstreamRe = regexp.MustCompile(`(?m)^### Workstream ([\d.]+): (.+)$`)
	headerRe     = regexp.MustCompile(`(?m)^\*\*([^:]+):\*\*\s+(.+)$`)
	durationRe   = regexp.MustCompile(`(?m)^\*\*Duration:\*\*\s+(.+)$`)
	goalRe       = regexp.MustCompile(`(?m)^\*\*Goal:\*\*\s+(.+)$`)
)

// section is one marker's captures plus the region it owns.
type section struct {
	ID    string
	Title string
	Line  int
	Body  string
}

// split locates every match of marker in text. base is the line number of
// the first byte of text.
func split(marker *regexp.Regexp, text string, base int) []section {
	locs := marker.FindAllStringSubmatchIndex(text, -1)
	out := make([]section, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out = append(out, section{
			ID:    text[loc[2]:loc[3]],
			Title: strings.TrimSpace(text[loc[4]:loc[5]]),
			Line:  base + strings.Count(text[:loc[0]], "\n"),
			Body:  text[loc[1]:end],
		})
	}
	return out
}

// preamble returns the text before the first phase marker.
func preamble(text string) string {
	if loc := phaseRe.FindStringIndex(text); loc != nil {
		return text[:loc[0]]
	}
	return text
}

// headerFields reads "**Field:** value" lines, keyed by lowercased field name
// with spaces replaced by underscores.
func headerFields(text string) map[string]string {
	out := make(map[string]string)
	for _, m := range headerRe.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		key = strings.ReplaceAll(key, " ", "_")
		out[key] = strings.TrimSpace(m[2])
	}
	return out
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
