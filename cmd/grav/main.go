package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/docs"
	"github.com/jorge-barreto/grav/internal/plan"
	"github.com/jorge-barreto/grav/internal/scaffold"
	"github.com/jorge-barreto/grav/internal/server"
	"github.com/jorge-barreto/grav/internal/state"
	"github.com/jorge-barreto/grav/internal/ux"
	cli "github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:        "grav",
		Usage:       "Keep a multi-agent project plan and its active context coherent",
		Description: "Run 'grav docs' for documentation on PLAN.md, ACTIVE.md, configuration, and more.",
		Version:     server.Version,
		Commands: []*cli.Command{
			initCmd(),
			planCmd(),
			activeCmd(),
			validateCmd(),
			archiveCmd(),
			scaffoldCmd(),
			watchCmd(),
			skillsCmd(),
			serveCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

// loadProject resolves the project root from cwd and loads its config.
func loadProject() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := state.FindRoot(wd)
	if err != nil {
		if errors.Is(err, state.ErrNoProjectRoot) {
			return nil, fmt.Errorf("%w (run 'grav init' to create one)", err)
		}
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func statusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "status", Usage: "Workstream status as id=STATUS (repeatable)"},
		&cli.BoolFlag{Name: "markers", Usage: "Read statuses from the checklist markers in PLAN.md"},
	}
}

// statuses collects the status input of a command: checklist markers
// when --markers is set, overridden by explicit --status assignments.
func statuses(cmd *cli.Command, cfg *config.Config) (map[string]plan.Status, error) {
	out := map[string]plan.Status{}
	if cmd.Bool("markers") {
		text, err := state.ReadDocument(cfg.PlanPath())
		if err != nil {
			return nil, fmt.Errorf("reading markers: %w", err)
		}
		for id, s := range plan.StatusesFromMarkers(text) {
			out[id] = s
		}
	}
	explicit, err := plan.ParseAssignments(cmd.StringSlice("status"))
	if err != nil {
		return nil, err
	}
	for id, s := range explicit {
		out[id] = s
	}
	return out, nil
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Scaffold a new project in the current directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return scaffold.Init(scaffold.FromConfig(cfg, time.Now()))
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server on stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			return server.Serve(&server.Project{Config: cfg, Now: time.Now})
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'grav docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}
