// Package scaffold generates project files from templates. Nothing it
// writes ever replaces an existing file.
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/state"
	"github.com/jorge-barreto/grav/internal/ux"
)

// Env carries the project values the templates are filled with.
type Env struct {
	Root        string
	ProjectName string
	Architect   string
	TechStack   string
	Author      string
	SpecsDir    string
	PromptsDir  string
	ToolsDir    string
	ArchiveDir  string
	ActivePath  string
	PlanPath    string
	Now         time.Time
}

// FromConfig builds an Env from the project configuration.
func FromConfig(cfg *config.Config, now time.Time) Env {
	return Env{
		Root:        cfg.Root,
		ProjectName: filepath.Base(cfg.Root),
		Architect:   cfg.Architect,
		TechStack:   cfg.TechStack,
		Author:      "Worker (Auto-generated)",
		SpecsDir:    cfg.SpecsDir,
		PromptsDir:  cfg.PromptsDir,
		ToolsDir:    cfg.ToolsDir,
		ArchiveDir:  cfg.ArchiveDir,
		ActivePath:  cfg.Active,
		PlanPath:    cfg.Plan,
		Now:         now,
	}
}

func (e Env) path(rel ...string) string {
	return filepath.Join(append([]string{e.Root}, rel...)...)
}

func (e Env) date() string { return e.Now.Format("2006-01-02") }

// InitResult lists what Init created and what it had to skip.
type InitResult struct {
	OK          bool     `json:"success"`
	Directories []string `json:"directories_created"`
	Files       []string `json:"files_created"`
	Errors      []string `json:"errors"`
}

// Project lays out a new project under e.Root. Files that already exist
// are reported in Errors and left untouched.
func Project(e Env) *InitResult {
	r := &InitResult{Directories: []string{}, Files: []string{}, Errors: []string{}}
	dirs := []string{
		filepath.Dir(e.ActivePath),
		filepath.Join(e.ArchiveDir, "completed"),
		filepath.Join(e.ArchiveDir, "deprecated"),
		filepath.Join(e.ArchiveDir, "snapshots"),
		e.PromptsDir,
		e.SpecsDir,
		e.ToolsDir,
		"tests",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(e.path(d), 0755); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("Failed to create directory %s: %v", d, err))
			continue
		}
		r.Directories = append(r.Directories, filepath.ToSlash(d))
	}

	data := map[string]string{
		"ProjectName": e.ProjectName,
		"Architect":   e.Architect,
		"Date":        e.date(),
		"Now":         e.Now.UTC().Format(time.RFC3339),
	}
	files := []struct {
		rel  string
		tmpl *template.Template
		text string
	}{
		{rel: e.ActivePath, tmpl: activeTemplate},
		{rel: filepath.Join(filepath.Dir(e.ActivePath), "coding_style.md"), text: codingStyle},
		{rel: filepath.Join(filepath.Dir(e.ActivePath), "system_prompt.md"), text: systemPrompt},
		{rel: e.PlanPath, tmpl: planTemplate},
		{rel: "mission.md", text: mission},
	}
	for _, f := range files {
		rel := filepath.ToSlash(f.rel)
		if _, err := os.Stat(e.path(f.rel)); err == nil {
			r.Errors = append(r.Errors, fmt.Sprintf("File already exists (skipped): %s", rel))
			continue
		}
		body := []byte(f.text)
		if f.tmpl != nil {
			var err error
			if body, err = render(f.tmpl, data); err != nil {
				r.Errors = append(r.Errors, fmt.Sprintf("Failed to create %s: %v", rel, err))
				continue
			}
		}
		if err := state.WriteNew(e.path(f.rel), body); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("Failed to create %s: %v", rel, err))
			continue
		}
		r.Files = append(r.Files, rel)
	}
	r.OK = len(r.Errors) == 0
	return r
}

// Init runs Project and prints a summary.
func Init(e Env) error {
	r := Project(e)
	if len(r.Files) == 0 && len(r.Errors) > 0 {
		return fmt.Errorf("project already initialized in %s: %s", e.Root, strings.Join(r.Errors, "; "))
	}

	fmt.Printf("\n%s%s✓ Initialized project in %s%s\n\n", ux.Bold, ux.Green, e.Root, ux.Reset)
	fmt.Printf("  Created:\n")
	for _, f := range r.Files {
		fmt.Printf("    %s%s%s\n", ux.Cyan, f, ux.Reset)
	}
	for _, msg := range r.Errors {
		fmt.Printf("  %s%s%s\n", ux.Yellow, msg, ux.Reset)
	}
	fmt.Printf("\n  Next steps:\n")
	fmt.Printf("    1. Describe phases and workstreams in %s%s%s\n", ux.Cyan, filepath.ToSlash(e.PlanPath), ux.Reset)
	fmt.Printf("    2. Run %sgrav plan validate%s\n", ux.Cyan, ux.Reset)
	fmt.Printf("    3. Run %sgrav scaffold workstream 1.1%s for the first worker prompt\n\n", ux.Cyan, ux.Reset)
	return nil
}

var toolNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Tool generates a Go package ToolsDir/<name> with one stub per function
// and a matching test file. It returns the created paths.
func Tool(e Env, name, description string, funcs []string) ([]string, error) {
	if !toolNameRe.MatchString(name) || token.IsKeyword(name) {
		return nil, fmt.Errorf("invalid tool name %q: use lower_snake_case", name)
	}
	if len(funcs) == 0 {
		return nil, errors.New("at least one function name is required")
	}
	exported := make([]string, 0, len(funcs))
	seen := map[string]bool{}
	for _, f := range funcs {
		id := exportedName(f)
		if !token.IsIdentifier(id) || !token.IsExported(id) {
			return nil, fmt.Errorf("invalid function name %q", f)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate function name %q", id)
		}
		seen[id] = true
		exported = append(exported, id)
	}
	if description == "" {
		description = "is a generated tool package."
	}

	dir := filepath.Join(e.ToolsDir, name)
	src := filepath.Join(dir, name+".go")
	test := filepath.Join(dir, name+"_test.go")
	for _, p := range []string{src, test} {
		if _, err := os.Stat(e.path(p)); err == nil {
			return nil, fmt.Errorf("file already exists: %s", filepath.ToSlash(p))
		}
	}

	data := struct {
		Name        string
		Description string
		Funcs       []string
	}{name, description, exported}
	srcBody, err := renderGo(toolTemplate, data)
	if err != nil {
		return nil, err
	}
	testBody, err := renderGo(toolTestTemplate, data)
	if err != nil {
		return nil, err
	}

	if err := state.WriteNew(e.path(src), srcBody); err != nil {
		return nil, err
	}
	if err := state.WriteNew(e.path(test), testBody); err != nil {
		os.Remove(e.path(src))
		return nil, err
	}
	return []string{filepath.ToSlash(src), filepath.ToSlash(test)}, nil
}

// exportedName turns snake_case or camelCase into an exported identifier.
func exportedName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Spec writes SpecsDir/<name>.md with the standard sections.
func Spec(e Env, name, title, version string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid spec name %q", name)
	}
	if title == "" {
		title = name
	}
	if version == "" {
		version = "v1.0"
	}
	rel := filepath.Join(e.SpecsDir, strings.TrimSuffix(name, ".md")+".md")
	body, err := render(specTemplate, map[string]string{
		"Title":   title,
		"Version": version,
		"Date":    e.date(),
		"Author":  e.Author,
	})
	if err != nil {
		return "", err
	}
	if err := state.WriteNew(e.path(rel), body); err != nil {
		return "", fmt.Errorf("spec file: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// WorkstreamPrompt describes the worker prompt to generate.
type WorkstreamPrompt struct {
	ID           string
	Title        string
	Role         string
	Model        string
	Deliverables []string
	Dependencies []string
}

// Workstream writes PromptsDir/phase{P}_ws{W}_{slug}.md for w.
func Workstream(e Env, w WorkstreamPrompt) (string, error) {
	phase, seq, err := splitID(w.ID)
	if err != nil {
		return "", err
	}
	if w.Title == "" {
		return "", errors.New("workstream title is required")
	}
	if w.Role == "" {
		w.Role = "a worker"
	}
	if w.Model == "" {
		w.Model = "any"
	}
	name := fmt.Sprintf("phase%d_ws%d_%s.md", phase, seq, slug(w.Title))
	rel := filepath.Join(e.PromptsDir, name)

	body, err := render(workstreamTemplate, struct {
		WorkstreamPrompt
		ProjectName string
		Architect   string
		Root        string
		TechStack   string
	}{w, e.ProjectName, orDefault(e.Architect, "[Architect]"), e.Root, e.TechStack})
	if err != nil {
		return "", err
	}
	if err := state.WriteNew(e.path(rel), body); err != nil {
		return "", fmt.Errorf("workstream prompt: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func splitID(id string) (int, int, error) {
	parts := strings.Split(id, ".")
	if len(parts) == 2 {
		p, err1 := strconv.Atoi(parts[0])
		w, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil && p >= 0 && w >= 0 {
			return p, w, nil
		}
	}
	return 0, 0, fmt.Errorf("invalid workstream id %q: expected P.W (e.g., 3.1)", id)
}

func slug(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", t.Name(), err)
	}
	return buf.Bytes(), nil
}

func renderGo(t *template.Template, data any) ([]byte, error) {
	raw, err := render(t, data)
	if err != nil {
		return nil, err
	}
	src, err := format.Source(raw)
	if err != nil {
		return nil, fmt.Errorf("generated code has syntax errors: %w", err)
	}
	return src, nil
}
