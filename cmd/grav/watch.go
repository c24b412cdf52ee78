package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jorge-barreto/grav/internal/active"
	"github.com/jorge-barreto/grav/internal/config"
	"github.com/jorge-barreto/grav/internal/journal"
	"github.com/jorge-barreto/grav/internal/validate"
	"github.com/jorge-barreto/grav/internal/watch"
	"github.com/jorge-barreto/grav/internal/ux"
	cli "github.com/urfave/cli/v3"
)

// openJournal opens the project journal. Failures are warnings: change
// detection works without it.
func openJournal(ctx context.Context, cfg *config.Config) *journal.Journal {
	j, err := journal.Open(ctx, cfg.JournalPath())
	if err != nil {
		ux.Warn("journal unavailable: %v", err)
		return nil
	}
	return j
}

// since resolves --since and --since-last. A zero time means "use the
// default window".
func since(ctx context.Context, cmd *cli.Command, j *journal.Journal) (time.Time, error) {
	if raw := cmd.String("since"); raw != "" {
		return active.ParseTimestamp(raw)
	}
	if !cmd.Bool("since-last") {
		return time.Time{}, nil
	}
	if j == nil {
		return time.Time{}, fmt.Errorf("--since-last needs the journal")
	}
	last, err := j.LastCheck(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if last == nil {
		ux.Warn("no previous check recorded; using the last %s", watch.DefaultReportWindow)
		return time.Time{}, nil
	}
	return last.CheckedAt, nil
}

func sinceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "since", Usage: "ISO 8601 timestamp to scan from"},
		&cli.BoolFlag{Name: "since-last", Usage: "Scan from the previous recorded check"},
		&cli.BoolFlag{Name: "no-journal", Usage: "Do not record this check"},
		jsonFlag(),
	}
}

// window opens the journal and resolves the start of the scan window.
// The caller closes the journal when it is non-nil.
func window(ctx context.Context, cmd *cli.Command, cfg *config.Config, now time.Time) (time.Time, *journal.Journal, error) {
	j := openJournal(ctx, cfg)
	from, err := since(ctx, cmd, j)
	if err != nil {
		if j != nil {
			j.Close()
		}
		return from, nil, err
	}
	if from.IsZero() {
		from = now.Add(-watch.DefaultReportWindow)
	}
	return from, j, nil
}

// record journals a check unless --no-journal was given.
func record(ctx context.Context, cmd *cli.Command, j *journal.Journal, now time.Time, recs []watch.Record) {
	if j == nil || cmd.Bool("no-journal") {
		return
	}
	if _, err := j.RecordCheck(ctx, now, watch.ToJournal(recs)); err != nil {
		ux.Warn("recording check: %v", err)
	}
}

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Detect changes and keep ACTIVE.md fresh",
		Commands: []*cli.Command{
			{
				Name:  "changes",
				Usage: "List files changed in the monitored directories",
				Flags: sinceFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					now := time.Now()
					from, j, err := window(ctx, cmd, cfg, now)
					if err != nil {
						return err
					}
					if j != nil {
						defer j.Close()
					}
					c, err := watch.NewDetector(cfg).Detect(from)
					if err != nil {
						return err
					}
					record(ctx, cmd, j, now, c.Records)
					if cmd.Bool("json") {
						return printJSON(c)
					}
					ux.ChangesReport(os.Stdout, c)
					return nil
				},
			},
			{
				Name:  "staleness",
				Usage: "Report how long ago ACTIVE.md was updated",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					s := validate.Checker(cfg, time.Now).StalenessFile(cfg.ActivePath())
					if cmd.Bool("json") {
						return printJSON(s)
					}
					if !s.OK {
						return fmt.Errorf("%s", s.Recommendation)
					}
					ux.StalenessReport(os.Stdout, s)
					return nil
				},
			},
			{
				Name:  "report",
				Usage: "Changes, suggested updates, and staleness in one report",
				Flags: sinceFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					now := time.Now()
					from, j, err := window(ctx, cmd, cfg, now)
					if err != nil {
						return err
					}
					if j != nil {
						defer j.Close()
					}
					r, err := watch.NewDetector(cfg).Report(validate.Checker(cfg, time.Now), cfg.ActivePath(), from, now)
					if err != nil {
						return err
					}
					record(ctx, cmd, j, now, r.Changes.Records)
					if cmd.Bool("json") {
						return printJSON(r)
					}
					fmt.Println(r.Summary)
					ux.ChangesReport(os.Stdout, r.Changes)
					fmt.Println()
					ux.StalenessReport(os.Stdout, r.Staleness)
					return nil
				},
			},
			{
				Name:  "monitor",
				Usage: "Watch the monitored directories and journal every change",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "duration", Usage: "Stop after this long (default: until interrupted)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
					defer stop()
					if dur := cmd.Duration("duration"); dur > 0 {
						var cancel context.CancelFunc
						ctx, cancel = context.WithTimeout(ctx, dur)
						defer cancel()
					}

					var rec watch.Recorder
					if j := openJournal(ctx, cfg); j != nil {
						defer j.Close()
						rec = j
					}
					fmt.Printf("%sWatching%s %v %s(Ctrl-C to stop)%s\n", ux.Bold, ux.Reset, cfg.MonitoredDirs, ux.Dim, ux.Reset)
					recs, err := watch.Collect(ctx, watch.NewDetector(cfg), rec, func(r watch.Record) {
						fmt.Printf("  %s%s%s %-8s %s\n", ux.Dim, r.ModifiedAt.Format("15:04:05"), ux.Reset, r.Type, r.Path)
					})
					if err != nil {
						return err
					}
					fmt.Printf("\n%d changes recorded\n", len(recs))
					return nil
				},
			},
			{
				Name:  "history",
				Usage: "List recorded checks",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "Number of checks to show"},
					&cli.BoolFlag{Name: "files", Usage: "Also list the files of each check"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadProject()
					if err != nil {
						return err
					}
					j, err := journal.Open(ctx, cfg.JournalPath())
					if err != nil {
						return err
					}
					defer j.Close()
					checks, err := j.Checks(ctx, int(cmd.Int("limit")))
					if err != nil {
						return err
					}
					if len(checks) == 0 {
						fmt.Printf("%s(no checks recorded)%s\n", ux.Dim, ux.Reset)
						return nil
					}
					for _, c := range checks {
						fmt.Printf("%s%s%s  %d changes  %s%s%s\n",
							ux.Cyan, c.CheckedAt.Local().Format("2006-01-02 15:04:05"), ux.Reset, c.Changes, ux.Dim, c.ID, ux.Reset)
						if !cmd.Bool("files") {
							continue
						}
						changes, err := j.Changes(ctx, c.ID)
						if err != nil {
							return err
						}
						for _, ch := range changes {
							fmt.Printf("    %-8s %s\n", ch.Type, ch.Path)
						}
					}
					return nil
				},
			},
		},
	}
}
