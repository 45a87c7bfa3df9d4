package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/tt/internal/store"
)

var keepDays int

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move old finished timers to an archive file",
	Long: `Move finished timers older than the cutoff into a sibling archive
file next to the data file. Archived timers no longer appear in reports or
name searches, which keeps both fast as the log grows. The running timer is
never archived.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDataPath()
		if err != nil {
			return err
		}
		st := store.New(path, logger)
		l, err := st.Load()
		if err != nil {
			if errors.Is(err, store.ErrNoData) {
				cmd.Println("Nothing to archive.")
				return nil
			}
			return err
		}

		cutoff := time.Now().AddDate(0, 0, -keepDays)
		archivePath, n, err := st.Archive(l, cutoff)
		if err != nil {
			return err
		}
		if n == 0 {
			cmd.Println("Nothing to archive.")
			return nil
		}
		cmd.Printf("Archived %d timers to %s\n", n, archivePath)
		return nil
	},
}

func init() {
	archiveCmd.Flags().IntVar(&keepDays, "keep-days", 90, "keep timers newer than this many days")
	rootCmd.AddCommand(archiveCmd)
}
