package cmd

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/tt/internal/history"
	"github.com/mkarlsen/tt/internal/store"
)

// completeTaskNames offers recently used task names as positional-argument
// completions, scraped from the tail of the data file. Completion must never
// fail: any problem just means no candidates.
func completeTaskNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	path, err := resolveDataPath()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	sc := &history.Scraper{Path: path, Window: cfg.HistoryWindow}
	return history.Rank(sc.Candidates(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeMapNames offers existing map keys as values for --map.
func completeMapNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	path, err := resolveDataPath()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	l, err := store.New(path, logger).Load()
	if err != nil {
		if !errors.Is(err, store.ErrNoData) {
			logger.Debug("map completion: " + err.Error())
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(l.NameMap))
	for from := range l.NameMap {
		names = append(names, from)
	}
	sort.Strings(names)
	return names, cobra.ShellCompDirectiveNoFileComp
}
