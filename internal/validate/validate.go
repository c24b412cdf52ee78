// Package validate runs every document check of a project and aggregates
// the verdicts.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jorge-barreto/grav/internal/active"
	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/plan"
	"github.com/jorge-barreto/grav/internal/state"
	"github.com/jorge-barreto/grav/internal/synccheck"
)

var (
	phaseHeaderRe   = regexp.MustCompile(`(?m)^## Phase \d+:`)
	anyWorkstreamRe = regexp.MustCompile(`(?m)^### Workstream`)
	stdWorkstreamRe = regexp.MustCompile(`(?m)^### Workstream \d+\.\d+:`)
	specTitleRe     = regexp.MustCompile(`(?m)^# .+$`)
)

// minSpecLength is the trimmed length below which a spec is considered
// to lack detail.
const minSpecLength = 50

// Result is the verdict for one document.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// SpecResult pairs a spec file name with its verdict.
type SpecResult struct {
	File   string `json:"file"`
	Result Result `json:"result"`
}

// Report aggregates every check of a project.
type Report struct {
	Valid   bool             `json:"overall_valid"`
	Active  active.Report    `json:"active_md"`
	Plan    Result           `json:"plan_md"`
	Specs   []SpecResult     `json:"specs"`
	Sync    synccheck.Report `json:"sync_check"`
	Summary string           `json:"summary"`
}

// PlanStructure runs the plan validator and the structural checks on the
// raw headers.
func PlanStructure(path string) Result {
	text, err := state.ReadDocument(path)
	if err != nil {
		return Result{Errors: []string{state.DescribeReadError(path, err)}, Warnings: []string{}}
	}
	v := plan.ValidateFile(path)
	r := Result{Errors: v.Errors, Warnings: v.Warnings}
	if !phaseHeaderRe.MatchString(text) {
		r.Errors = append(r.Errors, "Missing Phase headers (e.g., ## Phase 1: ...)")
	}
	if anyWorkstreamRe.MatchString(text) && !stdWorkstreamRe.MatchString(text) {
		r.Warnings = append(r.Warnings, "Workstream headers may not follow standard N.N format")
	}
	r.Valid = len(r.Errors) == 0
	return r
}

// Spec checks that a spec document has a title, version metadata and a
// body of some substance.
func Spec(path string) Result {
	text, err := state.ReadDocument(path)
	if err != nil {
		return Result{Errors: []string{state.DescribeReadError(path, err)}, Warnings: []string{}}
	}
	r := Result{Errors: []string{}, Warnings: []string{}}
	if !specTitleRe.MatchString(text) {
		r.Errors = append(r.Errors, "Spec missing primary title (# Title)")
	}
	if !strings.Contains(text, "Version:") {
		r.Warnings = append(r.Warnings, "Spec missing 'Version:' metadata")
	}
	if len(strings.TrimSpace(text)) < minSpecLength {
		r.Errors = append(r.Errors, "Spec content suspiciously short (low detail)")
	}
	r.Valid = len(r.Errors) == 0
	return r
}

// Checker builds the Active Context checker for cfg's thresholds.
func Checker(cfg *config.Config, now func() time.Time) active.Checker {
	return active.Checker{
		Now:        now,
		StaleAfter: hours(cfg.StalenessHours),
		AlertAfter: hours(cfg.AlertHours),
	}
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// Project validates ACTIVE.md, PLAN.md, every spec and the sync between
// the plan and the active context. statuses is passed to the sync check.
func Project(cfg *config.Config, now func() time.Time, statuses map[string]plan.Status) (*Report, error) {
	r := &Report{
		Active: Checker(cfg, now).ValidateFile(cfg.ActivePath()),
		Plan:   PlanStructure(cfg.PlanPath()),
		Specs:  []SpecResult{},
	}

	specs, err := filepath.Glob(filepath.Join(cfg.SpecsPath(), "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing specs: %w", err)
	}
	sort.Strings(specs)
	for _, p := range specs {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			continue
		}
		r.Specs = append(r.Specs, SpecResult{File: filepath.Base(p), Result: Spec(p)})
	}

	r.Sync = synccheck.CheckFiles(cfg.PlanPath(), cfg.ActivePath(), statuses)

	r.Valid = r.Active.Valid && r.Plan.Valid && r.Sync.InSync
	valid := 0
	for _, s := range r.Specs {
		if s.Result.Valid {
			valid++
		} else {
			r.Valid = false
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project Validation: %s\n", verdict(r.Valid, "PASSED", "FAILED"))
	fmt.Fprintf(&b, "- ACTIVE.md: %s\n", verdict(r.Active.Valid, "Valid", "Invalid"))
	fmt.Fprintf(&b, "- PLAN.md: %s\n", verdict(r.Plan.Valid, "Valid", "Invalid"))
	fmt.Fprintf(&b, "- Specs: %d/%d Valid\n", valid, len(r.Specs))
	fmt.Fprintf(&b, "- Sync: %s", verdict(r.Sync.InSync, "In Sync", "OUT OF SYNC"))
	r.Summary = b.String()
	return r, nil
}

func verdict(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
