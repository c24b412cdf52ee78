package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jorge-barreto/grav/internal/active"
	"github.com/jorge-barreto/grav/internal/archive"
	"github.com/jorge-barreto/grav/internal/skills"
	"github.com/jorge-barreto/grav/internal/validate"
	"github.com/jorge-barreto/grav/internal/watch"
	"github.com/mark3labs/mcp-go/mcp"
)

// ValidateActiveTool handles the validate_active MCP tool.
type ValidateActiveTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *ValidateActiveTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_active",
		mcp.WithDescription("Validate ACTIVE.md frontmatter against the schema, the field-count limit and the staleness threshold."),
	)
}

// Handle validates ACTIVE.md.
func (t *ValidateActiveTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := t.project.Config
	return jsonResult(validate.Checker(cfg, t.project.now).ValidateFile(cfg.ActivePath()))
}

// ValidateProjectTool handles the validate_project MCP tool.
type ValidateProjectTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *ValidateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_project",
		mcp.WithDescription("Validate ACTIVE.md, PLAN.md, every spec document and the plan/active sync in one report."),
		statusesOption(),
	)
}

// Handle runs the project validation.
func (t *ValidateProjectTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := statusesArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := validate.Project(t.project.Config, t.project.now, st)
	if err != nil {
		return nil, fmt.Errorf("validating project: %w", err)
	}
	return jsonResult(r)
}

// CheckStalenessTool handles the check_staleness MCP tool.
type CheckStalenessTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *CheckStalenessTool) Definition() mcp.Tool {
	return mcp.NewTool("check_staleness",
		mcp.WithDescription("Hours since ACTIVE.md was last updated by the architect or a worker, with a fresh/WARNING/ALERT level."),
	)
}

// Handle reports staleness.
func (t *CheckStalenessTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := t.project.Config
	return jsonResult(validate.Checker(cfg, t.project.now).StalenessFile(cfg.ActivePath()))
}

func (p *Project) archive() *archive.Manager {
	m := archive.New(p.Config.Root, p.Config.ArchivePath(), p.Config.ActivePath(), p.Config.PlanPath())
	m.Now = p.now
	return m
}

// ArchiveSnapshotTool handles the archive_snapshot MCP tool.
type ArchiveSnapshotTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *ArchiveSnapshotTool) Definition() mcp.Tool {
	return mcp.NewTool("archive_snapshot",
		mcp.WithDescription("Copy ACTIVE.md and PLAN.md into a timestamped snapshot directory of the archive."),
		mcp.WithString("label",
			mcp.Required(),
			mcp.Description("Snapshot label, e.g. 'before-phase-3'"),
		),
	)
}

// Handle takes the snapshot.
func (t *ArchiveSnapshotTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := strings.TrimSpace(req.GetString("label", ""))
	if label == "" {
		return mcp.NewToolResultError("'label' is required"), nil
	}
	dir, files, err := t.project.archive().TakeSnapshot(label)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"snapshot": dir, "files": files})
}

// ArchiveListTool handles the archive_list MCP tool.
type ArchiveListTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *ArchiveListTool) Definition() mcp.Tool {
	return mcp.NewTool("archive_list",
		mcp.WithDescription("List archived items with their metadata."),
		mcp.WithString("category",
			mcp.Description("Archive category"),
			mcp.Enum(archive.All, archive.Completed, archive.Deprecated, archive.Snapshots),
			mcp.DefaultString(archive.All),
		),
	)
}

// Handle lists the archive.
func (t *ArchiveListTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := t.project.archive().List(req.GetString("category", archive.All))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if items == nil {
		items = []archive.Item{}
	}
	return jsonResult(items)
}

// DetectChangesTool handles the detect_changes MCP tool.
type DetectChangesTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *DetectChangesTool) Definition() mcp.Tool {
	return mcp.NewTool("detect_changes",
		mcp.WithDescription("Files changed in the monitored directories, the workstreams they relate to, "+
			"and suggested ACTIVE.md updates."),
		mcp.WithString("since",
			mcp.Description("ISO 8601 timestamp. Takes precedence over 'hours'."),
		),
		mcp.WithNumber("hours",
			mcp.Description("Look back this many hours (default 24)"),
		),
	)
}

// Handle scans for changes.
func (t *DetectChangesTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since := t.project.now().Add(-time.Duration(intArg(req, "hours", 24)) * time.Hour)
	if raw := strings.TrimSpace(req.GetString("since", "")); raw != "" {
		ts, err := active.ParseTimestamp(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		since = ts
	}
	c, err := watch.NewDetector(t.project.Config).Detect(since)
	if err != nil {
		return nil, fmt.Errorf("detecting changes: %w", err)
	}
	return jsonResult(c)
}

// SkillsListTool handles the skills_list MCP tool.
type SkillsListTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *SkillsListTool) Definition() mcp.Tool {
	return mcp.NewTool("skills_list",
		mcp.WithDescription("List the skills installed for this project and the tools each one provides."),
		mcp.WithString("query",
			mcp.Description("Optional fuzzy filter over skill names and descriptions"),
		),
	)
}

// Handle lists skills.
func (t *SkillsListTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := t.project.Config
	roots, warnings := skills.Roots(cfg.Root, cfg.SkillsPath())
	reg, err := skills.Load(roots)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	list := reg.Skills
	if q := strings.TrimSpace(req.GetString("query", "")); q != "" {
		list = nil
		for _, m := range reg.Find(q) {
			list = append(list, m.Skill)
		}
	}
	if list == nil {
		list = []skills.Skill{}
	}
	return jsonResult(map[string]any{
		"skills":   list,
		"errors":   reg.Errors,
		"warnings": warnings,
	})
}
