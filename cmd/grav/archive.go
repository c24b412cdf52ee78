package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/grav/internal/archive"
	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/ux"
	cli "github.com/urfave/cli/v3"
)

func archiveManager(cfg *config.Config) *archive.Manager {
	return archive.New(cfg.Root, cfg.ArchivePath(), cfg.ActivePath(), cfg.PlanPath())
}

// absPath resolves a command-line path against the working directory.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// archiveAction runs fn against the project's archive manager.
func archiveAction(fn func(cmd *cli.Command, m *archive.Manager) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadProject()
		if err != nil {
			return err
		}
		return fn(cmd, archiveManager(cfg))
	}
}

func archiveCmd() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Move finished work out of the way and keep snapshots",
		Commands: []*cli.Command{
			{
				Name:      "completed",
				Usage:     "Move a file or directory into the completed archive",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Value: "Completed", Usage: "Why the item is archived"},
				},
				Action: archiveAction(func(cmd *cli.Command, m *archive.Manager) error {
					path := cmd.Args().First()
					if path == "" {
						return fmt.Errorf("path argument is required")
					}
					dst, err := m.Complete(absPath(path), cmd.String("reason"))
					if err != nil {
						return err
					}
					fmt.Printf("%s✓%s Archived %s → %s\n", ux.Green, ux.Reset, path, dst)
					return nil
				}),
			},
			{
				Name:      "deprecate",
				Usage:     "Move a file or directory into the deprecated archive",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Usage: "Why the item is deprecated"},
					&cli.StringFlag{Name: "replacement", Usage: "What replaces it"},
				},
				Action: archiveAction(func(cmd *cli.Command, m *archive.Manager) error {
					path := cmd.Args().First()
					if path == "" {
						return fmt.Errorf("path argument is required")
					}
					dst, err := m.Deprecate(absPath(path), cmd.String("reason"), cmd.String("replacement"))
					if err != nil {
						return err
					}
					fmt.Printf("%s✓%s Deprecated %s → %s\n", ux.Green, ux.Reset, path, dst)
					return nil
				}),
			},
			{
				Name:      "snapshot",
				Usage:     "Copy ACTIVE.md and PLAN.md into a labelled snapshot",
				ArgsUsage: "<label>",
				Action: archiveAction(func(cmd *cli.Command, m *archive.Manager) error {
					dir, files, err := m.TakeSnapshot(cmd.Args().First())
					if err != nil {
						return err
					}
					if len(files) == 0 {
						ux.Warn("no files to snapshot; created empty %s", dir)
						return nil
					}
					fmt.Printf("%s✓%s Snapshot %s (%d files)\n", ux.Green, ux.Reset, dir, len(files))
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "List archived items",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Value: archive.All, Usage: "all, completed, deprecated, or snapshots"},
					jsonFlag(),
				},
				Action: archiveAction(func(cmd *cli.Command, m *archive.Manager) error {
					items, err := m.List(cmd.String("category"))
					if err != nil {
						return err
					}
					if cmd.Bool("json") {
						if items == nil {
							items = []archive.Item{}
						}
						return printJSON(items)
					}
					ux.ArchiveList(os.Stdout, items)
					return nil
				}),
			},
			{
				Name:      "restore",
				Usage:     "Move an archived item back to its original path",
				ArgsUsage: "<archived-path>",
				Action: archiveAction(func(cmd *cli.Command, m *archive.Manager) error {
					path := cmd.Args().First()
					if path == "" {
						return fmt.Errorf("archived path argument is required")
					}
					dst, err := m.Restore(absPath(path))
					if err != nil {
						return err
					}
					fmt.Printf("%s✓%s Restored %s\n", ux.Green, ux.Reset, dst)
					return nil
				}),
			},
		},
	}
}
