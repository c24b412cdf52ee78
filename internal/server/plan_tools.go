package server

import (
	"context"
	"strings"

	"github.com/jorge-barreto/grav/internal/plan"
	"github.com/jorge-barreto/grav/internal/synccheck"
	"github.com/mark3labs/mcp-go/mcp"
)

// PlanParseTool handles the plan_parse MCP tool.
type PlanParseTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *PlanParseTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_parse",
		mcp.WithDescription("Parse PLAN.md into phases and workstreams with their deliverables, dependencies and blocks."),
		statusesOption(),
	)
}

// Handle parses the plan.
func (t *PlanParseTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := t.project.parsedPlan(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(p)
}

// PlanValidateTool handles the plan_validate MCP tool.
type PlanValidateTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *PlanValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_validate",
		mcp.WithDescription("Validate PLAN.md: dangling dependency references and circular dependencies are errors, "+
			"workstreams without deliverables are warnings."),
	)
}

// Handle validates the plan.
func (t *PlanValidateTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(plan.ValidateFile(t.project.Config.PlanPath()))
}

// WorkerContextTool handles the worker_context MCP tool.
type WorkerContextTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *WorkerContextTool) Definition() mcp.Tool {
	return mcp.NewTool("worker_context",
		mcp.WithDescription("Everything a worker needs before starting a workstream: its phase, deliverables, "+
			"and the workstreams it depends on and blocks."),
		mcp.WithString("workstream_id",
			mcp.Required(),
			mcp.Description("Workstream id, e.g. '2.1'"),
		),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum("json", "markdown"),
			mcp.DefaultString("json"),
		),
		statusesOption(),
	)
}

// Handle assembles the worker context.
func (t *WorkerContextTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("workstream_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'workstream_id' is required"), nil
	}
	p, errResult := t.project.parsedPlan(req)
	if errResult != nil {
		return errResult, nil
	}
	wc, err := p.Context(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.GetString("format", "json") == "markdown" {
		return mcp.NewToolResultText(wc.Markdown()), nil
	}
	return jsonResult(wc)
}

// UpdateStatusTool handles the update_status MCP tool.
type UpdateStatusTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *UpdateStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("update_status",
		mcp.WithDescription("Rewrite the checklist markers of PLAN.md lines that mention a workstream. "+
			"Markers: [ ] planned, [/] in progress or blocked, [x] completed, [~] cancelled."),
		mcp.WithString("workstream_id",
			mcp.Required(),
			mcp.Description("Workstream id, e.g. '2.1'"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status"),
			mcp.Enum("PLANNED", "IN_PROGRESS", "BLOCKED", "COMPLETED", "CANCELLED"),
		),
	)
}

// Handle rewrites the markers.
func (t *UpdateStatusTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("workstream_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'workstream_id' is required"), nil
	}
	s, err := plan.ParseStatus(req.GetString("status", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	up := plan.UpdateStatus(t.project.Config.PlanPath(), id, s)
	if !up.OK {
		return mcp.NewToolResultError(strings.Join(up.Errors, "; ")), nil
	}
	return jsonResult(up)
}

// SyncCheckTool handles the sync_check MCP tool.
type SyncCheckTool struct {
	project *Project
}

// Definition returns the MCP tool definition.
func (t *SyncCheckTool) Definition() mcp.Tool {
	return mcp.NewTool("sync_check",
		mcp.WithDescription("Check that ACTIVE.md lists every completed, in-progress and blocked workstream of PLAN.md "+
			"in the matching list."),
		statusesOption(),
	)
}

// Handle runs the sync check.
func (t *SyncCheckTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := statusesArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg := t.project.Config
	return jsonResult(synccheck.CheckFiles(cfg.PlanPath(), cfg.ActivePath(), st))
}
