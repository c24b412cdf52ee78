package active

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jorge-barreto/grav/internal/frontmatter"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO 8601 timestamp. Values without a zone are
// read in local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for i, layout := range timestampLayouts {
		var t time.Time
		var err error
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("Invalid ISO 8601 timestamp: %q", s)
}

// Staleness levels.
const (
	LevelFresh   = "fresh"
	LevelWarning = "WARNING"
	LevelAlert   = "ALERT"
)

// Staleness reports how long ago ACTIVE.md was last updated.
type Staleness struct {
	OK                  bool    `json:"success"`
	Stale               bool    `json:"is_stale"`
	Level               string  `json:"level"`
	HoursSinceArchitect float64 `json:"hours_since_architect_update"`
	HoursSinceWorker    float64 `json:"hours_since_worker_update"`
	HoursSinceLast      float64 `json:"hours_since_last_update"`
	Recommendation      string  `json:"recommendation"`
}

// StalenessFile reads path and reports its staleness.
func (c Checker) StalenessFile(path string) Staleness {
	return c.Staleness(frontmatter.ReadFile(path))
}

// Staleness measures the time since the newest update timestamp in doc.
func (c Checker) Staleness(doc frontmatter.Document) Staleness {
	if !doc.OK {
		return Staleness{Recommendation: "Cannot check staleness: " + strings.Join(doc.Errors, "; ")}
	}
	arch := doc.Fields.String(FieldArchitectedAt)
	work := doc.Fields.String(FieldWorkedAt)
	if arch == "" && work == "" {
		return Staleness{Stale: true, Level: LevelAlert, Recommendation: "Add last_architect_update and last_worker_update timestamps"}
	}

	now := c.now()
	var s Staleness
	last := math.Inf(1)
	for _, ts := range []struct {
		value string
		out   *float64
	}{{arch, &s.HoursSinceArchitect}, {work, &s.HoursSinceWorker}} {
		if ts.value == "" {
			continue
		}
		t, err := ParseTimestamp(ts.value)
		if err != nil {
			return Staleness{Recommendation: err.Error()}
		}
		h := now.Sub(t).Hours()
		*ts.out = round2(h)
		if h < last {
			last = h
		}
	}
	s.OK = true
	s.HoursSinceLast = round2(last)

	stale, alert := c.StaleAfter.Hours(), c.AlertAfter.Hours()
	switch {
	case alert > 0 && last > alert:
		s.Stale, s.Level = true, LevelAlert
		s.Recommendation = fmt.Sprintf("ALERT: ACTIVE.md is very stale (%.1fh). Architect should review immediately.", last)
	case last > stale:
		s.Stale, s.Level = true, LevelWarning
		s.Recommendation = fmt.Sprintf("WARNING: ACTIVE.md is stale (%.1fh). Consider updating.", last)
	default:
		s.Level = LevelFresh
		s.Recommendation = fmt.Sprintf("ACTIVE.md is fresh (%.1fh since last update).", last)
	}
	return s
}

func round2(h float64) float64 {
	return math.Round(h*100) / 100
}
