package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jorge-barreto/grav/internal/plan"
	"github.com/jorge-barreto/grav/internal/scaffold"
	"github.com/jorge-barreto/grav/internal/ux"
	cli "github.com/urfave/cli/v3"
)

func created(paths ...string) {
	for _, p := range paths {
		fmt.Printf("%s✓%s Created %s%s%s\n", ux.Green, ux.Reset, ux.Cyan, p, ux.Reset)
	}
}

func scaffoldCmd() *cli.Command {
	return &cli.Command{
		Name:  "scaffold",
		Usage: "Generate tools, specs, and workstream prompts",
		Commands: []*cli.Command{
			{
				Name:      "tool",
				Usage:     "Generate a Go tool package with stub functions and tests",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "Package doc sentence"},
					&cli.StringSliceFlag{Name: "func", Usage: "Function to stub (repeatable, default: the tool name)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name := cmd.Args().First()
					if name == "" {
						return fmt.Errorf("tool name is required")
					}
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					funcs := cmd.StringSlice("func")
					if len(funcs) == 0 {
						funcs = []string{name}
					}
					paths, err := scaffold.Tool(scaffold.FromConfig(cfg, time.Now()), name, cmd.String("description"), funcs)
					if err != nil {
						return err
					}
					created(paths...)
					return nil
				},
			},
			{
				Name:      "spec",
				Usage:     "Generate a spec document",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Document title (default: the name)"},
					&cli.StringFlag{Name: "version", Value: "v1.0", Usage: "Spec version"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					p, err := scaffold.Spec(scaffold.FromConfig(cfg, time.Now()),
						cmd.Args().First(), cmd.String("title"), cmd.String("version"))
					if err != nil {
						return err
					}
					created(p)
					return nil
				},
			},
			{
				Name:      "workstream",
				Usage:     "Generate a worker prompt for a workstream",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Workstream title (default: read from the plan)"},
					&cli.StringFlag{Name: "role", Usage: "Worker role"},
					&cli.StringFlag{Name: "model", Usage: "Model to use"},
					&cli.StringSliceFlag{Name: "deliverable", Usage: "Deliverable (repeatable)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					w := scaffold.WorkstreamPrompt{
						ID:           cmd.Args().First(),
						Title:        cmd.String("title"),
						Role:         cmd.String("role"),
						Model:        cmd.String("model"),
						Deliverables: cmd.StringSlice("deliverable"),
					}
					if w.Title == "" {
						if err := fillFromPlan(&w, cfg.PlanPath()); err != nil {
							return err
						}
					}
					p, err := scaffold.Workstream(scaffold.FromConfig(cfg, time.Now()), w)
					if err != nil {
						return err
					}
					created(p)
					return nil
				},
			},
		},
	}
}

// fillFromPlan completes w from the plan's workstream of the same ID.
// Values already set on w are kept.
func fillFromPlan(w *scaffold.WorkstreamPrompt, planPath string) error {
	res := plan.ParseFile(planPath)
	if !res.OK {
		return fmt.Errorf("--title not given and the plan could not be read: %v", res.Errors)
	}
	ws, _ := res.Plan.Workstream(w.ID)
	if ws == nil {
		return fmt.Errorf("Workstream %s %w; pass --title", w.ID, plan.ErrWorkstreamNotFound)
	}
	w.Title = ws.Title
	if w.Role == "" {
		w.Role = ws.Role
	}
	if w.Model == "" {
		w.Model = ws.Model
	}
	if len(w.Deliverables) == 0 {
		w.Deliverables = ws.Deliverables
	}
	w.Dependencies = ws.Dependencies
	return nil
}
