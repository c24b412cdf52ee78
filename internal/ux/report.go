package ux

import (
	"fmt"
	"io"
	"strings"

	"github.com/jorge-barreto/grav/internal/active"
	"github.com/jorge-barreto/grav/internal/archive"
	"github.com/jorge-barreto/grav/internal/plan"
	"github.com/jorge-barreto/grav/internal/synccheck"
	"github.com/jorge-barreto/grav/internal/validate"
	"github.com/jorge-barreto/grav/internal/watch"
)

// PlanTree prints the phases and workstreams of p.
func PlanTree(w io.Writer, p *plan.Plan) {
	if p.Architect != "" {
		fmt.Fprintf(w, "%sArchitect:%s %s\n", Bold, Reset, p.Architect)
	}
	if p.Status != "" {
		fmt.Fprintf(w, "%sStatus:%s    %s\n", Bold, Reset, p.Status)
	}
	if len(p.Phases) == 0 {
		fmt.Fprintf(w, "%s(no phases)%s\n", Dim, Reset)
		return
	}
	for _, ph := range p.Phases {
		Header(w, fmt.Sprintf("Phase %d: %s", ph.ID, ph.Title))
		if ph.Goal != "" {
			fmt.Fprintf(w, "  %s\n", Muted(ph.Goal))
		}
		for _, ws := range ph.Workstreams {
			fmt.Fprintf(w, "  %s %s%-6s%s %-40s %s\n", plan.Marker(ws.Status), Cyan, ws.ID, Reset, ws.Title, StatusBadge(ws.Status))
			if len(ws.Dependencies) > 0 {
				fmt.Fprintf(w, "             %sdepends on %s%s\n", Dim, strings.Join(ws.Dependencies, ", "), Reset)
			}
		}
	}
	fmt.Fprintln(w)
}

// Verdict prints a titled pass/fail line followed by its issues.
func Verdict(w io.Writer, title string, ok bool, errs, warnings []string) {
	fmt.Fprintf(w, "%s %s\n", Badge(ok, "✓", "✗"), title)
	Issues(w, errs, warnings)
}

// ActiveReport prints an ACTIVE.md validation.
func ActiveReport(w io.Writer, r active.Report) {
	Verdict(w, fmt.Sprintf("ACTIVE.md (%d fields, updated %.1fh ago)", r.FieldCount, r.StalenessHours),
		r.Valid, r.Errors, r.Warnings)
}

// SyncReport prints the outcome of a sync check.
func SyncReport(w io.Writer, r synccheck.Report) {
	Verdict(w, "PLAN.md / ACTIVE.md "+Badge(r.InSync, "in sync", "OUT OF SYNC"), r.InSync, nil, r.Warnings)
	for _, d := range r.Discrepancies {
		fmt.Fprintf(w, "  %s Workstream %s is %s but %s\n", styleFail.Render("✗"), d.WorkstreamID, d.PlanStatus, d.ActiveStatus)
		fmt.Fprintf(w, "      %s%s%s\n", Dim, d.Recommendation, Reset)
	}
}

// ProjectReport prints every section of a project validation and its summary.
func ProjectReport(w io.Writer, r *validate.Report) {
	Header(w, "Project Validation")
	ActiveReport(w, r.Active)
	Verdict(w, "PLAN.md", r.Plan.Valid, r.Plan.Errors, r.Plan.Warnings)
	for _, s := range r.Specs {
		Verdict(w, "specs/"+s.File, s.Result.Valid, s.Result.Errors, s.Result.Warnings)
	}
	SyncReport(w, r.Sync)
	fmt.Fprintf(w, "\n%s\n", Badge(r.Valid, "PASSED", "FAILED"))
}

// StalenessReport prints how long ago ACTIVE.md was updated.
func StalenessReport(w io.Writer, s active.Staleness) {
	level := s.Level
	switch level {
	case active.LevelFresh:
		level = stylePass.Render(level)
	case active.LevelWarning:
		level = styleWarn.Render(level)
	default:
		level = styleFail.Render(level)
	}
	fmt.Fprintf(w, "%sStaleness:%s %s\n", Bold, Reset, level)
	fmt.Fprintf(w, "  architect %.1fh ago, worker %.1fh ago\n", s.HoursSinceArchitect, s.HoursSinceWorker)
	fmt.Fprintf(w, "  %s\n", s.Recommendation)
}

// ChangesReport prints detected changes and the suggested updates.
func ChangesReport(w io.Writer, c *watch.Changes) {
	Header(w, c.Summary)
	for _, r := range c.Records {
		ws := ""
		if len(r.Workstreams) > 0 {
			ws = Muted(" → " + strings.Join(r.Workstreams, ", "))
		}
		fmt.Fprintf(w, "  %s%s%s %-8s %s%s\n", Dim, r.ModifiedAt.Format("2006-01-02 15:04"), Reset, r.Type, r.Path, ws)
	}
	Suggestions(w, c.Suggestions)
}

// Suggestions prints the ACTIVE.md updates implied by a set of changes.
func Suggestions(w io.Writer, s watch.Suggestions) {
	if len(s.Messages) == 0 {
		return
	}
	Header(w, "Suggested ACTIVE.md updates")
	for _, m := range s.Messages {
		fmt.Fprintf(w, "  • %s\n", m)
	}
	for _, u := range s.Auto {
		fmt.Fprintf(w, "  %sauto%s   %s: %s\n", Green, Reset, u.Field, joinOr(u.Values, "-"))
	}
	for _, r := range s.Manual {
		fmt.Fprintf(w, "  %sreview%s %s: %s\n", Yellow, Reset, r.Field, r.Reason)
	}
}

// ArchiveList prints archived items.
func ArchiveList(w io.Writer, items []archive.Item) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s(archive is empty)%s\n", Dim, Reset)
		return
	}
	for _, it := range items {
		detail := ""
		switch {
		case it.Meta != nil:
			detail = fmt.Sprintf("%s  %s", it.Meta.ArchiveDate, it.Meta.Reason)
		case it.MetaErr != "":
			detail = it.MetaErr
		}
		fmt.Fprintf(w, "  %s%-10s%s %-40s %s\n", Cyan, it.Category, Reset, it.Name, Muted(detail))
	}
}
