package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/klyphq/klypstore/internal/config"
	"github.com/klyphq/klypstore/internal/entrypoint"
)

// StatsCommand prints per-type document counts for the local store
type StatsCommand struct {
	ShowAudit bool
}

// NewStatsCommand creates a new StatsCommand
func NewStatsCommand() *StatsCommand {
	return &StatsCommand{}
}

// ParseFlags parses command line flags
func (cmd *StatsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	fs.BoolVar(&cmd.ShowAudit, "audit", false, "Also list recent audit events")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s stats [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print how many documents of each type the local store holds.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the stats command
func (cmd *StatsCommand) Run() error {
	app, err := entrypoint.New(config.NewConfig())
	if err != nil {
		return err
	}
	defer app.Close()

	counts := []struct {
		label string
		count func() (int64, error)
	}{
		{"students", app.Students.Count},
		{"educators", app.Educators.Count},
		{"classes", app.Classes.Count},
		{"klyps", app.Klyps.Count},
		{"summaries", app.Summaries.Count},
	}

	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return fmt.Errorf("count %s: %w", c.label, err)
		}
		fmt.Printf("%-10s %d\n", c.label, n)
	}

	if cmd.ShowAudit && app.Recorder != nil {
		events, err := app.Recorder.Events(20)
		if err != nil {
			return fmt.Errorf("list audit events: %w", err)
		}
		fmt.Printf("\nRecent audit events (%d):\n", len(events))
		for _, e := range events {
			fmt.Printf("  %s  %-7s %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.EventType, e.Description)
		}
	}

	return nil
}
