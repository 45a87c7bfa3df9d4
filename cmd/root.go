package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mkarlsen/tt/internal/config"
	"github.com/mkarlsen/tt/internal/report"
	"github.com/mkarlsen/tt/internal/store"
	"github.com/mkarlsen/tt/internal/timer"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger is the process-wide logger. --verbose switches it to debug level.
var logger = zap.NewNop()

var (
	dataFile     string
	verbose      bool
	explicit     bool
	mapName      string
	stopTimer    bool
	showReport   bool
	showCalendar bool
	leapMinutes  int
)

var rootCmd = &cobra.Command{
	Use:   "tt [flags] [name...]",
	Short: "Keep track of timers, one at a time",
	Long: `tt keeps track of timers. Only one timer is ever running at a time.

Run with no arguments to see the active timer. Run with positional
arguments to stop the current timer and start a new one named by the
arguments (joined with spaces). Unless --explicit is given, the name is
resolved through the name map first, then as a regular expression matched
against existing timer names from most recent backwards, and finally used
as is — so "." restarts the most recent timer.`,
	Args:              cobra.ArbitraryArgs,
	ValidArgsFunction: completeTaskNames,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return err
		}
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		return nil
	},
	RunE: run,
}

// run dispatches the root invocation in the tracker's precedence order:
// stop, then map, then starting a named timer, then reports, then the
// status line.
func run(cmd *cobra.Command, args []string) error {
	path, err := resolveDataPath()
	if err != nil {
		return err
	}
	st := store.New(path, logger)
	l, err := st.Load()
	if errors.Is(err, store.ErrNoData) {
		l = timer.NewLog(logger)
	} else if err != nil {
		return err
	}

	now := time.Now().Truncate(time.Second)
	if leapMinutes != 0 {
		now = now.Add(-time.Duration(leapMinutes) * time.Minute)
		logger.Debug("leaped", zap.Int("minutes", leapMinutes), zap.Time("now", now))
	}

	var name string
	if len(args) > 0 {
		name = l.Resolve(strings.Join(args, " "), explicit)
		logger.Debug("using name", zap.String("name", name))
	}

	switch {
	case stopTimer:
		printAll(cmd, l.StopAt(now))
	case mapName != "":
		if !l.SetMap(mapName, name) {
			cmd.Println("Map not changed!")
		}
	case name != "":
		printAll(cmd, l.StopAt(now))
		cmd.Println(l.Start(name, now))
	case showCalendar:
		cmd.Print(report.Calendar(l.Timers, now.Year(), now.Month(), now, styles()))
	case showReport:
		if len(l.Timers) == 0 {
			cmd.Println("No timers to report")
		} else {
			cmd.Print(report.Render(report.Build(l.Timers, now), styles()))
		}
	default:
		if t := l.ActiveTimer(); t != nil {
			mins := int(t.Duration(now).Minutes())
			cmd.Printf("%s %d:%02d (started %s)\n", t.Name, mins/60, mins%60, humanize.Time(t.Start))
		} else {
			cmd.Println("No active timer")
		}
	}

	if l.Dirty() {
		return st.Save(l)
	}
	return nil
}

func printAll(cmd *cobra.Command, msgs []string) {
	for _, msg := range msgs {
		cmd.Println(msg)
	}
}

// resolveDataPath returns the data file to operate on: the --file flag wins,
// then the configured data_file, then ~/.timetracker.
func resolveDataPath() (string, error) {
	path := dataFile
	if path == "" {
		path = cfg.DataFile
	}
	if path == "" {
		return store.DefaultPath()
	}
	return expandHome(path)
}

// expandHome resolves a leading ~ in a user-supplied path.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// styles picks the report styles per the no_color setting.
func styles() report.Styles {
	if cfg.NoColor {
		return report.PlainStyles()
	}
	return report.DefaultStyles()
}

// newLogger builds a console logger writing to stderr. Warnings and errors
// always show; --verbose turns on the debug chatter (load/save counts, name
// resolution steps).
func newLogger(verbose bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = level
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataFile, "file", "f", "", "use FILE for time tracker data")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print status messages")

	f := rootCmd.Flags()
	f.BoolVarP(&explicit, "explicit", "e", false, "use this name explicitly, don't use map or search")
	f.StringVarP(&mapName, "map", "m", "", "map NAME to a name from the positional arguments")
	f.BoolVarP(&stopTimer, "stop", "s", false, "stop any current timer")
	f.BoolVarP(&showReport, "report", "r", false, "generate a report")
	f.BoolVarP(&showCalendar, "calendar", "c", false, "generate a calendar report")
	f.IntVarP(&leapMinutes, "leap", "l", 0, "quantum leap to N minutes ago and run the command from that time")

	rootCmd.MarkFlagsMutuallyExclusive("stop", "map", "report", "calendar")

	_ = rootCmd.RegisterFlagCompletionFunc("map", completeMapNames)
}
