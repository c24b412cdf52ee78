// Package skills discovers skill packages (directories holding a SKILL.md),
// loads their Go tools through an interpreter and searches remote catalogs.
package skills

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jorge-barreto/grav/internal/frontmatter"
)

// DocFile marks a skill directory.
const DocFile = "SKILL.md"

// RegistryFile lists extra skill roots relative to the project root.
const RegistryFile = ".agent/skills.json"

// ErrSkillNotFound is returned when a skill or tool is not registered.
var ErrSkillNotFound = errors.New("skill not found")

// Skill is one discovered skill package.
type Skill struct {
	Name        string   `json:"name"`
	Root        string   `json:"root"`
	Dir         string   `json:"dir"`
	Description string   `json:"description,omitempty"`
	Doc         string   `json:"-"`
	Tools       []string `json:"tools,omitempty"`
}

type registryFile struct {
	SkillsDirs []string `json:"skills_dirs"`
}

// Roots returns the skill roots of a project: skillsDir followed by the
// directories listed in the registry file. Registry entries that do not
// exist are reported as warnings.
func Roots(projectRoot, skillsDir string) ([]string, []string) {
	roots := []string{skillsDir}
	var warnings []string

	data, err := os.ReadFile(filepath.Join(projectRoot, RegistryFile))
	if err != nil {
		if !os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("Failed to read skills registry: %v", err))
		}
		return roots, warnings
	}
	var reg registryFile
	if err := json.Unmarshal(data, &reg); err != nil {
		return roots, append(warnings, fmt.Sprintf("Failed to load skills registry: %v", err))
	}
	for _, d := range reg.SkillsDirs {
		p := d
		if !filepath.IsAbs(p) {
			p = filepath.Join(projectRoot, p)
		}
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("Registry skill directory not found: %s", p))
			continue
		}
		roots = append(roots, filepath.Clean(p))
	}
	return roots, warnings
}

// Discover finds every skill under roots. Skills under the first root are
// named by their relative path; the others are prefixed with the root's
// base name.
func Discover(roots []string) ([]Skill, error) {
	var out []Skill
	seen := map[string]bool{}
	for i, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := filepath.WalkDir(root, func(path string, e fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if e.IsDir() {
				if path != root && (strings.HasPrefix(e.Name(), ".") || e.Name() == "__pycache__") {
					return fs.SkipDir
				}
				return nil
			}
			if e.Name() != DocFile {
				return nil
			}
			dir := filepath.Dir(path)
			key := dir
			if resolved, err := filepath.EvalSymlinks(dir); err == nil {
				key = resolved
			}
			if seen[key] {
				return nil
			}
			seen[key] = true

			rel, _ := filepath.Rel(root, dir)
			name := filepath.ToSlash(rel)
			if name == "." {
				name = filepath.Base(dir)
			}
			if i > 0 {
				name = filepath.Base(root) + "/" + name
			}
			s, err := readSkill(name, root, dir)
			if err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning skills in %s: %w", root, err)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func readSkill(name, root, dir string) (Skill, error) {
	data, err := os.ReadFile(filepath.Join(dir, DocFile))
	if err != nil {
		return Skill{}, err
	}
	s := Skill{Name: name, Root: root, Dir: dir, Doc: strings.TrimSpace(string(data))}
	doc := frontmatter.Parse(s.Doc)
	if d := doc.Fields.String("description"); d != "" {
		s.Description = d
	} else {
		s.Description = firstLine(doc.Body)
	}
	return s, nil
}

// firstLine returns the first line of prose, skipping headings.
func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line
	}
	return ""
}
