package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jorge-barreto/grav/internal/active"
	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/plan"
	"github.com/jorge-barreto/grav/internal/synccheck"
	"github.com/jorge-barreto/grav/internal/validate"
	"github.com/jorge-barreto/grav/internal/ux"
	cli "github.com/urfave/cli/v3"
)

// loadPlan parses the project plan with the command's status input applied.
func loadPlan(cmd *cli.Command, cfg *config.Config) (*plan.Plan, error) {
	st, err := statuses(cmd, cfg)
	if err != nil {
		return nil, err
	}
	res := plan.ParseFile(cfg.PlanPath())
	if !res.OK {
		return nil, fmt.Errorf("parsing plan: %s", strings.Join(res.Errors, "; "))
	}
	for _, e := range res.Errors {
		ux.Warn("%s", e)
	}
	if missing := res.Plan.ApplyStatuses(st); len(missing) > 0 {
		return nil, fmt.Errorf("--status names unknown workstreams: %s", strings.Join(missing, ", "))
	}
	return res.Plan, nil
}

func planCmd() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Inspect and update PLAN.md",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print phases and workstreams",
				Flags: append(statusFlags(), jsonFlag()),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					p, err := loadPlan(cmd, cfg)
					if err != nil {
						return err
					}
					if cmd.Bool("json") {
						return printJSON(p)
					}
					ux.PlanTree(os.Stdout, p)
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "Check dependency references and cycles",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					v := plan.ValidateFile(cfg.PlanPath())
					if cmd.Bool("json") {
						if err := printJSON(v); err != nil {
							return err
						}
					} else {
						ux.Verdict(os.Stdout, cfg.Plan, v.Valid, v.Errors, v.Warnings)
					}
					if !v.Valid {
						return fmt.Errorf("plan is invalid (%d errors)", len(v.Errors))
					}
					return nil
				},
			},
			{
				Name:      "context",
				Usage:     "Print the worker context of a workstream",
				ArgsUsage: "<id>",
				Flags:     append(statusFlags(), jsonFlag()),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("workstream id is required")
					}
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					p, err := loadPlan(cmd, cfg)
					if err != nil {
						return err
					}
					wc, err := p.Context(id)
					if err != nil {
						return err
					}
					if cmd.Bool("json") {
						return printJSON(wc)
					}
					fmt.Print(wc.Markdown())
					return nil
				},
			},
			{
				Name:      "status",
				Usage:     "Rewrite the checklist markers of a workstream",
				ArgsUsage: "<id> <STATUS>",
				Flags:     []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return fmt.Errorf("usage: grav plan status <id> <STATUS>")
					}
					s, err := plan.ParseStatus(cmd.Args().Get(1))
					if err != nil {
						return err
					}
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					up := plan.UpdateStatus(cfg.PlanPath(), cmd.Args().First(), s)
					if cmd.Bool("json") {
						if err := printJSON(up); err != nil {
							return err
						}
					}
					if !up.OK {
						return fmt.Errorf("%s", strings.Join(up.Errors, "; "))
					}
					if cmd.Bool("json") {
						return nil
					}
					if up.UpdatedLines == 0 {
						ux.Warn("no checklist line mentions Workstream %s; nothing changed", up.ID)
						return nil
					}
					fmt.Printf("%s✓%s Workstream %s: %s → %s (%d lines updated)\n",
						ux.Green, ux.Reset, up.ID, up.OldStatus, up.NewStatus, up.UpdatedLines)
					return nil
				},
			},
			{
				Name:  "sync",
				Usage: "Compare workstream statuses with ACTIVE.md",
				Flags: append(statusFlags(), jsonFlag()),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					st, err := statuses(cmd, cfg)
					if err != nil {
						return err
					}
					r := synccheck.CheckFiles(cfg.PlanPath(), cfg.ActivePath(), st)
					if cmd.Bool("json") {
						if err := printJSON(r); err != nil {
							return err
						}
					} else {
						ux.SyncReport(os.Stdout, r)
					}
					if !r.InSync {
						return fmt.Errorf("%s and %s are out of sync", cfg.Plan, cfg.Active)
					}
					return nil
				},
			},
		},
	}
}

func activeCmd() *cli.Command {
	return &cli.Command{
		Name:  "active",
		Usage: "Validate and update ACTIVE.md",
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Check ACTIVE.md against the schema",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					r := validate.Checker(cfg, time.Now).ValidateFile(cfg.ActivePath())
					if cmd.Bool("json") {
						if err := printJSON(r); err != nil {
							return err
						}
					} else {
						ux.ActiveReport(os.Stdout, r)
					}
					if !r.Valid {
						return fmt.Errorf("%s is invalid (%d errors)", cfg.Active, len(r.Errors))
					}
					return nil
				},
			},
			{
				Name:  "touch",
				Usage: "Stamp the architect or worker update time",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "role", Value: "worker", Usage: "architect or worker"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					if err := active.Touch(cfg.ActivePath(), cmd.String("role"), time.Now()); err != nil {
						return err
					}
					fmt.Printf("%s✓%s Updated last_%s_update in %s\n", ux.Green, ux.Reset, cmd.String("role"), cfg.Active)
					return nil
				},
			},
		},
	}
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate ACTIVE.md, PLAN.md, specs, and their sync",
		Flags: append(statusFlags(), jsonFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			st, err := statuses(cmd, cfg)
			if err != nil {
				return err
			}
			r, err := validate.Project(cfg, time.Now, st)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				if err := printJSON(r); err != nil {
					return err
				}
			} else {
				ux.ProjectReport(os.Stdout, r)
				fmt.Printf("\n%s\n", r.Summary)
			}
			if !r.Valid {
				return fmt.Errorf("project validation failed")
			}
			return nil
		},
	}
}
