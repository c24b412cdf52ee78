package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks the config for errors.
func Validate(cfg *Config) error {
	paths := []struct {
		key, value string
	}{
		{"plan", cfg.Plan},
		{"active", cfg.Active},
		{"specs_dir", cfg.SpecsDir},
		{"archive_dir", cfg.ArchiveDir},
		{"prompts_dir", cfg.PromptsDir},
		{"tools_dir", cfg.ToolsDir},
		{"skills_dir", cfg.SkillsDir},
		{"journal", cfg.Journal},
	}
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("config: '%s' must not be empty", p.key)
		}
		if !filepath.IsAbs(p.value) && strings.HasPrefix(filepath.Clean(p.value), "..") {
			return fmt.Errorf("config: '%s' must stay inside the project (%q)", p.key, p.value)
		}
	}

	if len(cfg.MonitoredDirs) == 0 {
		return fmt.Errorf("config: at least one entry in 'monitored_dirs' is required")
	}
	seen := make(map[string]bool)
	for _, d := range cfg.MonitoredDirs {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("config: 'monitored_dirs' entries must be non-empty")
		}
		if seen[d] {
			return fmt.Errorf("config: 'monitored_dirs': duplicate entry %q", d)
		}
		seen[d] = true
	}
	for _, pat := range cfg.Ignore {
		if strings.TrimSpace(pat) == "" {
			return fmt.Errorf("config: 'ignore' entries must be non-empty")
		}
		if _, err := filepath.Match(pat, ""); err != nil {
			return fmt.Errorf("config: 'ignore': invalid pattern %q: %w", pat, err)
		}
	}

	if cfg.StalenessHours <= 0 {
		return fmt.Errorf("config: 'staleness_hours' must be positive")
	}
	if cfg.AlertHours < cfg.StalenessHours {
		return fmt.Errorf("config: 'alert_hours' (%g) must not be below 'staleness_hours' (%g)", cfg.AlertHours, cfg.StalenessHours)
	}
	if cfg.MaxChanges <= 0 {
		return fmt.Errorf("config: 'max_changes' must be positive")
	}
	return nil
}
