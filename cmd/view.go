package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mkarlsen/tt/internal/report"
	"github.com/mkarlsen/tt/internal/store"
	"github.com/mkarlsen/tt/internal/timer"
	"github.com/mkarlsen/tt/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse reports interactively",
	Long: `Open an interactive browser with daily, weekly, monthly, and calendar
report tabs. The view reloads automatically when the data file changes.
With --plain, or when stdout is not a terminal, the default report is
printed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDataPath()
		if err != nil {
			return err
		}
		st := store.New(path, logger)

		if plainOutput || !term.IsTerminal(os.Stdout.Fd()) {
			return printDefaultReport(cmd, st)
		}
		return tui.Run(st, styles())
	},
}

// printDefaultReport writes the configured default report (report or
// calendar) as plain text.
func printDefaultReport(cmd *cobra.Command, st *store.Store) error {
	l, err := st.Load()
	if errors.Is(err, store.ErrNoData) {
		l = timer.NewLog(logger)
	} else if err != nil {
		return err
	}

	now := time.Now()
	if cfg.DefaultReport == "calendar" {
		cmd.Print(report.Calendar(l.Timers, now.Year(), now.Month(), now, report.PlainStyles()))
		return nil
	}
	if len(l.Timers) == 0 {
		cmd.Println("No timers to report")
		return nil
	}
	cmd.Print(report.Render(report.Build(l.Timers, now), report.PlainStyles()))
	return nil
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "print the report as plain text instead of the interactive view")
	rootCmd.AddCommand(viewCmd)
}
