package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/skills"
	"github.com/jorge-barreto/grav/internal/ux"
	cli "github.com/urfave/cli/v3"
)

// loadSkills discovers the project's skills, printing registry and load
// problems as warnings.
func loadSkills(cfg *config.Config) (*skills.Registry, error) {
	roots, warnings := skills.Roots(cfg.Root, cfg.SkillsPath())
	for _, w := range warnings {
		ux.Warn("%s", w)
	}
	reg, err := skills.Load(roots)
	if err != nil {
		return nil, err
	}
	for _, e := range reg.Errors {
		ux.Warn("%s", e)
	}
	return reg, nil
}

// toolArgs turns key=value arguments into a tool argument map. Numbers
// and booleans are converted; everything else stays a string.
func toolArgs(items []string) (map[string]any, error) {
	args := make(map[string]any, len(items))
	for _, item := range items {
		k, v, ok := strings.Cut(item, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", item)
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			args[k] = n
		} else if b, err := strconv.ParseBool(v); err == nil {
			args[k] = b
		} else {
			args[k] = v
		}
	}
	return args, nil
}

func skillsCmd() *cli.Command {
	return &cli.Command{
		Name:  "skills",
		Usage: "Discover, run, and search for agent skills",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List installed skills and their tools",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					reg, err := loadSkills(cfg)
					if err != nil {
						return err
					}
					if cmd.Bool("json") {
						if reg.Skills == nil {
							reg.Skills = []skills.Skill{}
						}
						return printJSON(reg.Skills)
					}
					if len(reg.Skills) == 0 {
						fmt.Printf("%s(no skills found in %s)%s\n", ux.Dim, cfg.SkillsDir, ux.Reset)
						return nil
					}
					for _, s := range reg.Skills {
						fmt.Printf("  %s%-24s%s %s\n", ux.Cyan, s.Name, ux.Reset, s.Description)
						for _, t := range s.Tools {
							fmt.Printf("    %s%s.%s%s\n", ux.Dim, s.Name, t, ux.Reset)
						}
					}
					return nil
				},
			},
			{
				Name:  "docs",
				Usage: "Print the SKILL.md of every skill",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					reg, err := loadSkills(cfg)
					if err != nil {
						return err
					}
					fmt.Print(reg.Docs())
					return nil
				},
			},
			{
				Name:      "find",
				Usage:     "Fuzzy-find installed skills",
				ArgsUsage: "<query>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					query := strings.Join(cmd.Args().Slice(), " ")
					if query == "" {
						return fmt.Errorf("query is required")
					}
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					reg, err := loadSkills(cfg)
					if err != nil {
						return err
					}
					matches := reg.Find(query)
					if len(matches) == 0 {
						fmt.Printf("%s(no skills match %q)%s\n", ux.Dim, query, ux.Reset)
						return nil
					}
					for _, m := range matches {
						fmt.Printf("  %s%-24s%s %s\n", ux.Cyan, m.Skill.Name, ux.Reset, m.Skill.Description)
					}
					return nil
				},
			},
			{
				Name:      "run",
				Usage:     "Run a skill tool",
				ArgsUsage: "<skill.Tool> [key=value ...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name := cmd.Args().First()
					if name == "" {
						return fmt.Errorf("tool name is required (see 'grav skills list')")
					}
					args, err := toolArgs(cmd.Args().Tail())
					if err != nil {
						return err
					}
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					reg, err := loadSkills(cfg)
					if err != nil {
						return err
					}
					out, err := reg.Run(name, args)
					if err != nil {
						return err
					}
					fmt.Println(out)
					return nil
				},
			},
			{
				Name:      "search",
				Usage:     "Search skills.sh and the awesome-agent-skills list",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 5, Usage: "Results per source"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					query := strings.Join(cmd.Args().Slice(), " ")
					if query == "" {
						return fmt.Errorf("query is required")
					}
					c := skills.NewCatalog()
					c.Limit = int(cmd.Int("limit"))
					res := c.Search(query)
					if cmd.Bool("json") {
						return printJSON(res)
					}
					for _, e := range res.Errors {
						ux.Warn("%s", e)
					}
					if res.Warning != "" {
						ux.Warn("%s", res.Warning)
					}
					for _, e := range res.Results {
						fmt.Printf("  %s%-24s%s %s\n", ux.Cyan, e.Skill, ux.Reset, e.Description)
						fmt.Printf("    %s%s%s\n", ux.Dim, e.Install, ux.Reset)
					}
					if npx := skills.CheckNPX(); !npx.Available && len(res.Results) > 0 {
						ux.Warn("%s", npx.Note)
					}
					return nil
				},
			},
		},
	}
}
