// Package server wires the grav operations into an MCP server on stdio.
//
// Each tool is a struct holding the project it operates on. Definition
// returns the mcp.Tool schema and Handle runs the operation, answering
// with the operation's result as indented JSON.
package server

import (
	"context"
	"log"
	"time"

	"github.com/jorge-barreto/grav/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Project is the shared dependency of every tool.
type Project struct {
	Config *config.Config
	Now    func() time.Time
}

func (p *Project) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Tool is what New registers.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Tools returns every tool bound to p, in registration order.
func Tools(p *Project) []Tool {
	return []Tool{
		&PlanParseTool{p},
		&PlanValidateTool{p},
		&WorkerContextTool{p},
		&UpdateStatusTool{p},
		&SyncCheckTool{p},
		&ValidateActiveTool{p},
		&ValidateProjectTool{p},
		&CheckStalenessTool{p},
		&ArchiveSnapshotTool{p},
		&ArchiveListTool{p},
		&DetectChangesTool{p},
		&SkillsListTool{p},
	}
}

// New creates the MCP server with every tool registered.
func New(p *Project) *server.MCPServer {
	s := server.NewMCPServer(
		"grav",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, t := range Tools(p) {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(p *Project) error {
	log.SetPrefix("grav: ")
	log.Printf("serving %s (project %s)", Version, p.Config.Root)
	return server.ServeStdio(New(p))
}

const instructions = `grav keeps PLAN.md and .context/ACTIVE.md coherent for a multi-agent project.

Workers: call worker_context with your workstream id before starting, and
update_status when you finish or get blocked.

Architect: call validate_project and sync_check before assigning new work,
detect_changes to see what workers touched, and archive_snapshot before
large edits to the plan.`
