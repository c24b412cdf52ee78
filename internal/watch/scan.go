// Package watch detects file changes in the monitored directories and
// turns them into suggested ACTIVE.md updates.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/plan"
)

// Change types.
const (
	Created  = "created"
	Modified = "modified"
	Deleted  = "deleted"
)

// Record is one changed file.
type Record struct {
	Path        string    `json:"filepath"`
	Type        string    `json:"change_type"`
	ModifiedAt  time.Time `json:"timestamp"`
	Size        int64     `json:"size_bytes"`
	Workstreams []string  `json:"relates_to_workstream,omitempty"`
}

// Detector scans a project for changes.
type Detector struct {
	Root       string
	Dirs       []string
	Ignore     []string
	SpecsDir   string
	ContextDir string
	KeyDirs    []string
	Max        int
	Map        Map
}

// NewDetector builds a Detector from cfg. The workstream map comes from
// the plan; an unreadable plan leaves the map empty.
func NewDetector(cfg *config.Config) *Detector {
	d := &Detector{
		Root:       cfg.Root,
		Dirs:       cfg.MonitoredDirs,
		Ignore:     cfg.Ignore,
		SpecsDir:   filepath.ToSlash(cfg.SpecsDir),
		ContextDir: filepath.ToSlash(filepath.Dir(cfg.Active)),
		KeyDirs:    []string{filepath.ToSlash(cfg.ToolsDir), "src/tools", "internal", "cmd"},
		Max:        cfg.MaxChanges,
	}
	if res := plan.ParseFile(cfg.PlanPath()); res.OK {
		d.Map = BuildMap(res.Plan)
	}
	return d
}

// Ignored reports whether the project-relative path rel is excluded:
// any component matching an ignore pattern, or a dot-named component
// other than .context.
func (d *Detector) Ignored(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "" || part == "." {
			continue
		}
		if strings.HasPrefix(part, ".") && part != ".context" {
			return true
		}
		for _, pat := range d.Ignore {
			if part == pat {
				return true
			}
			if ok, _ := filepath.Match(pat, part); ok {
				return true
			}
		}
	}
	return false
}

// Scan returns files under the monitored directories modified after
// since, newest first, without the cap applied.
func (d *Detector) Scan(since time.Time) ([]Record, error) {
	var out []Record
	for _, dir := range d.Dirs {
		base := filepath.Join(d.Root, dir)
		if _, err := os.Stat(base); err != nil {
			continue
		}
		err := filepath.WalkDir(base, func(path string, e fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are skipped, not fatal.
				if e != nil && e.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			rel, _ := filepath.Rel(d.Root, path)
			if d.Ignored(rel) {
				if e.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if e.IsDir() {
				return nil
			}
			info, err := e.Info()
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
			if info.ModTime().After(since) {
				out = append(out, Record{
					Path:       filepath.ToSlash(rel),
					Type:       Modified,
					ModifiedAt: info.ModTime(),
					Size:       info.Size(),
				})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModifiedAt.Equal(out[j].ModifiedAt) {
			return out[i].ModifiedAt.After(out[j].ModifiedAt)
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// Changes is the result of Detect.
type Changes struct {
	OK          bool        `json:"success"`
	Since       time.Time   `json:"since"`
	Total       int         `json:"total"`
	Records     []Record    `json:"changes"`
	Summary     string      `json:"summary"`
	Suggestions Suggestions `json:"suggestions"`
}

// Detect scans for changes after since, caps the list at Max and derives
// update suggestions.
func (d *Detector) Detect(since time.Time) (*Changes, error) {
	recs, err := d.Scan(since)
	if err != nil {
		return nil, err
	}
	c := &Changes{OK: true, Since: since, Total: len(recs)}
	switch {
	case d.Max > 0 && len(recs) > d.Max:
		c.Summary = fmt.Sprintf("%d changes detected (showing most recent %d)", len(recs), d.Max)
		recs = recs[:d.Max]
	case len(recs) == 1:
		c.Summary = "1 change detected"
	default:
		c.Summary = fmt.Sprintf("%d changes detected", len(recs))
	}
	if recs == nil {
		recs = []Record{}
	}
	c.Records = recs
	c.Suggestions = d.Suggest(c.Records)
	return c, nil
}
