package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds project layout and policy settings. Values come from
// .context/grav.yaml (or .yml/.toml), GRAV_* environment variables and the
// built-in defaults, in that order of precedence from last to first.
type Config struct {
	Plan           string   `mapstructure:"plan"`
	Active         string   `mapstructure:"active"`
	SpecsDir       string   `mapstructure:"specs_dir"`
	ArchiveDir     string   `mapstructure:"archive_dir"`
	PromptsDir     string   `mapstructure:"prompts_dir"`
	ToolsDir       string   `mapstructure:"tools_dir"`
	SkillsDir      string   `mapstructure:"skills_dir"`
	Journal        string   `mapstructure:"journal"`
	MonitoredDirs  []string `mapstructure:"monitored_dirs"`
	Ignore         []string `mapstructure:"ignore"`
	StalenessHours float64  `mapstructure:"staleness_hours"`
	AlertHours     float64  `mapstructure:"alert_hours"`
	MaxChanges     int      `mapstructure:"max_changes"`
	Architect      string   `mapstructure:"architect"`
	TechStack      string   `mapstructure:"tech_stack"`

	// Root is the project root the relative paths are resolved against.
	Root string `mapstructure:"-"`
	// File is the config file that was read, empty when defaults applied.
	File string `mapstructure:"-"`
}

var defaults = map[string]any{
	"plan":            "PLAN.md",
	"active":          ".context/ACTIVE.md",
	"specs_dir":       "specs",
	"archive_dir":     ".archive",
	"prompts_dir":     "artifacts/prompts",
	"tools_dir":       "internal/tools",
	"skills_dir":      ".agent/skills",
	"journal":         ".context/grav.db",
	"monitored_dirs":  []string{"src", "specs", ".context", "tests", "artifacts", "internal", "cmd"},
	"ignore":          []string{".git", "__pycache__", "venv", ".archive", "node_modules", ".pytest_cache", ".venv", "build", "dist", "*.egg-info"},
	"staleness_hours": 24.0,
	"alert_hours":     48.0,
	"max_changes":     100,
	"architect":       "",
	"tech_stack":      "Go, markdown-first project state",
}

// Load reads the configuration for the project at root. A missing config
// file is not an error.
func Load(root string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigName("grav")
	v.AddConfigPath(filepath.Join(root, ".context"))
	v.SetEnvPrefix("GRAV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Root = root
	cfg.File = v.ConfigFileUsed()
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path resolves a configured path against the project root.
func (c *Config) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, rel)
}

func (c *Config) PlanPath() string    { return c.Path(c.Plan) }
func (c *Config) ActivePath() string  { return c.Path(c.Active) }
func (c *Config) SpecsPath() string   { return c.Path(c.SpecsDir) }
func (c *Config) ArchivePath() string { return c.Path(c.ArchiveDir) }
func (c *Config) JournalPath() string { return c.Path(c.Journal) }
func (c *Config) SkillsPath() string  { return c.Path(c.SkillsDir) }
