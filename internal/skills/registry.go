package skills

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Registry holds the discovered skills and their loaded tools.
type Registry struct {
	Skills []Skill
	// Errors lists skills whose tools failed to load. Other skills are
	// unaffected.
	Errors []string

	tools map[string]Tool
}

// Load discovers the skills under roots and loads their tools. Tools are
// registered as <skill>.<function>.
func Load(roots []string) (*Registry, error) {
	skills, err := Discover(roots)
	if err != nil {
		return nil, err
	}
	r := &Registry{Skills: skills, tools: map[string]Tool{}}
	for i := range r.Skills {
		s := &r.Skills[i]
		tools, err := LoadTools(s.Dir)
		if err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("skill %s: %v", s.Name, err))
			continue
		}
		for name, fn := range tools {
			r.tools[s.Name+"."+name] = fn
			s.Tools = append(s.Tools, name)
		}
		sort.Strings(s.Tools)
	}
	return r, nil
}

// ToolNames returns every registered tool, sorted.
func (r *Registry) ToolNames() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Skill returns the named skill.
func (r *Registry) Skill(name string) (*Skill, error) {
	for i := range r.Skills {
		if r.Skills[i].Name == name {
			return &r.Skills[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrSkillNotFound)
}

// Run calls a registered tool. A panicking tool is reported as an error.
func (r *Registry) Run(name string, args map[string]any) (out string, err error) {
	fn, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("tool %s: %w", name, ErrSkillNotFound)
	}
	defer func() {
		if p := recover(); p != nil {
			out, err = "", fmt.Errorf("tool %s panicked: %v", name, p)
		}
	}()
	if args == nil {
		args = map[string]any{}
	}
	return fn(args)
}

// Docs concatenates every skill's SKILL.md with a header naming the skill
// and the root it came from.
func (r *Registry) Docs() string {
	var parts []string
	for _, s := range r.Skills {
		if s.Doc == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("\n--- SKILL: %s (%s) ---\n%s", s.Name, filepath.Base(s.Root), s.Doc))
	}
	return strings.Join(parts, "\n")
}

// FindResult is one fuzzy match of a local skill.
type FindResult struct {
	Skill Skill `json:"skill"`
	Score int   `json:"score"`
}

type skillSource []Skill

func (s skillSource) String(i int) string { return s[i].Name + " " + s[i].Description }
func (s skillSource) Len() int            { return len(s) }

// Find fuzzy-matches query against skill names and descriptions, best
// match first.
func (r *Registry) Find(query string) []FindResult {
	out := []FindResult{}
	if strings.TrimSpace(query) == "" {
		return out
	}
	for _, m := range fuzzy.FindFrom(query, skillSource(r.Skills)) {
		out = append(out, FindResult{Skill: r.Skills[m.Index], Score: m.Score})
	}
	return out
}
