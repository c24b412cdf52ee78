package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jorge-barreto/grav/internal/plan"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorSuccess = lipgloss.Color("#00E676")
	colorDanger  = lipgloss.Color("#FF5252")
	colorAccent  = lipgloss.Color("#FFD700")
	colorBlue    = lipgloss.Color("#5B8DEF")
	colorMuted   = lipgloss.Color("#8C8C8C")
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	stylePass   = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleFail   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	styleWarn   = lipgloss.NewStyle().Foreground(colorAccent)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
)

var statusStyles = map[plan.Status]lipgloss.Style{
	plan.StatusPlanned:    styleMuted,
	plan.StatusInProgress: lipgloss.NewStyle().Foreground(colorBlue),
	plan.StatusBlocked:    lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
	plan.StatusCompleted:  lipgloss.NewStyle().Foreground(colorSuccess),
	plan.StatusCancelled:  styleMuted.Strikethrough(true),
}

// Header prints a section title.
func Header(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", styleHeader.Render(title))
}

// Badge renders yes in green when ok, no in red otherwise.
func Badge(ok bool, yes, no string) string {
	if ok {
		return stylePass.Render(yes)
	}
	return styleFail.Render(no)
}

// StatusBadge renders a workstream status.
func StatusBadge(s plan.Status) string {
	st, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return st.Render(string(s))
}

// Issues prints errors and warnings, one per line.
func Issues(w io.Writer, errs, warnings []string) {
	for _, e := range errs {
		fmt.Fprintf(w, "  %s %s\n", styleFail.Render("✗"), e)
	}
	for _, wn := range warnings {
		fmt.Fprintf(w, "  %s %s\n", styleWarn.Render("⚠"), wn)
	}
}

// Warn prints a non-fatal condition to stderr.
func Warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%swarning:%s %s\n", Yellow, Reset, fmt.Sprintf(format, args...))
}

// Muted renders secondary text.
func Muted(s string) string {
	return styleMuted.Render(s)
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
