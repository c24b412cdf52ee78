package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jorge-barreto/grav/internal/plan"
	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult renders v as the tool's text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// intArg extracts an integer argument (JSON numbers arrive as float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// statusesArg reads the optional "statuses" argument, a comma-separated
// list of id=STATUS pairs.
func statusesArg(req mcp.CallToolRequest) (map[string]plan.Status, error) {
	raw := strings.TrimSpace(req.GetString("statuses", ""))
	if raw == "" {
		return nil, nil
	}
	return plan.ParseAssignments(strings.Split(raw, ","))
}

// statusesOption is the schema entry shared by the tools accepting statuses.
func statusesOption() mcp.ToolOption {
	return mcp.WithString("statuses",
		mcp.Description("Workstream statuses as comma-separated id=STATUS pairs, e.g. '1.1=COMPLETED,2.1=IN_PROGRESS'. Workstreams not listed are PLANNED."),
	)
}

// parsedPlan parses the project plan and applies statuses. A failed parse
// is returned as a tool error result.
func (p *Project) parsedPlan(req mcp.CallToolRequest) (*plan.Plan, *mcp.CallToolResult) {
	st, err := statusesArg(req)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	res := plan.ParseFile(p.Config.PlanPath())
	if !res.OK {
		return nil, mcp.NewToolResultError(strings.Join(res.Errors, "; "))
	}
	if missing := res.Plan.ApplyStatuses(st); len(missing) > 0 {
		return nil, mcp.NewToolResultError(fmt.Sprintf("unknown workstreams in statuses: %s", strings.Join(missing, ", ")))
	}
	return res.Plan, nil
}
