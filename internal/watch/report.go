package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/jorge-barreto/grav/internal/active"
)

// DefaultReportWindow is how far back Report looks without an explicit since.
const DefaultReportWindow = 24 * time.Hour

// reportedChanges caps the records carried in a Report.
const reportedChanges = 20

// Report combines change detection with ACTIVE.md staleness.
type Report struct {
	Since     time.Time        `json:"since"`
	Changes   *Changes         `json:"file_changes"`
	Staleness active.Staleness `json:"active_md_staleness"`
	Summary   string           `json:"summary"`
}

// Report builds the status report for the architect. A zero since means
// DefaultReportWindow before now.
func (d *Detector) Report(c active.Checker, activePath string, since, now time.Time) (*Report, error) {
	if since.IsZero() {
		since = now.Add(-DefaultReportWindow)
	}
	changes, err := d.Detect(since)
	if err != nil {
		return nil, err
	}
	if len(changes.Records) > reportedChanges {
		changes.Records = changes.Records[:reportedChanges]
	}
	r := &Report{Since: since, Changes: changes, Staleness: c.StalenessFile(activePath)}

	lines := []string{
		fmt.Sprintf("Project Status Report (since %s)", since.Format(time.RFC3339)),
		fmt.Sprintf("- File Changes: %d", changes.Total),
		fmt.Sprintf("- ACTIVE.md Status: %s", r.Staleness.Recommendation),
	}
	if n := len(changes.Suggestions.Messages); n > 0 {
		lines = append(lines, fmt.Sprintf("- Suggested Updates: %d", n))
	}
	r.Summary = strings.Join(lines, "\n")
	return r, nil
}
