package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	lineKeyRe  = regexp.MustCompile(`^(\w+):\s*(.*)$`)
	lineItemRe = regexp.MustCompile(`^  - (.+)$`)
)

// Lines is a lossy line scanner. It understands "key: value" scalars with
// optional quotes, "[]" for an empty list, and runs of "  - item" lines under
// a key with no inline value. Nested mappings, flow sequences with items and
// multi-line scalars are not supported; lines it cannot place are reported.
type Lines struct{}

func (Lines) Decode(block string) (Fields, []string, error) {
	fields := Fields{}
	var keys, skipped []string
	listKey := ""
	for n, raw := range strings.Split(block, "\n") {
		line := strings.TrimRight(raw, "\r")
		if listKey != "" {
			if m := lineItemRe.FindStringSubmatch(line); m != nil {
				fields[listKey] = append(fields[listKey].([]string), unquote(strings.TrimSpace(m[1])))
				continue
			}
			listKey = ""
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		m := lineKeyRe.FindStringSubmatch(trimmed)
		if m == nil {
			skipped = append(skipped, fmt.Sprintf("line %d: %q", n+1, trimmed))
			continue
		}
		key, value := m[1], strings.TrimSpace(m[2])
		if !fields.Has(key) {
			keys = append(keys, key)
		}
		switch value {
		case "":
			fields[key] = []string{}
			listKey = key
		case "[]":
			fields[key] = []string{}
		default:
			fields[key] = unquote(value)
		}
	}
	if len(skipped) > 0 {
		return fields, keys, fmt.Errorf("could not parse %s", strings.Join(skipped, ", "))
	}
	return fields, keys, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
