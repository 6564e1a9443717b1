package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pushbox/internal/storage"
)

var flagRecent int

var statsCmd = &cobra.Command{
	Use:   "stats [collection]",
	Short: "Show recorded replay results",
	Long: `Without arguments, list the collections that have recorded results.
With a collection name, show per-level statistics and the most recent runs.

Results are recorded by 'pushbox replay --record'.

Examples:
  pushbox stats
  pushbox stats Microban --recent 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			return printCollections(cmd.OutOrStdout(), store)
		}
		return printStats(cmd.OutOrStdout(), store, args[0], flagRecent)
	},
}

func init() {
	statsCmd.Flags().IntVar(&flagRecent, "recent", 10, "Number of recent runs to show")
}

func printCollections(w io.Writer, store *storage.Store) error {
	names, err := store.Collections()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(w, "No results recorded yet.")
		fmt.Fprintln(w, "Run 'pushbox replay <collection> <level> <moves> --record' to record one.")
		return nil
	}
	fmt.Fprintln(w, "Collections with results:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
	return nil
}

func printStats(w io.Writer, store *storage.Store, name string, recent int) error {
	stats, err := store.CollectionStats(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Results - %s\n\n", name)
	if len(stats) == 0 {
		fmt.Fprintln(w, "No results recorded yet.")
		return nil
	}

	fmt.Fprintf(w, "  %-20s  %-8s  %-6s  %-10s  %s\n", "Level", "Attempts", "Solves", "Best", "Last played")
	fmt.Fprintf(w, "  %-20s  %-8s  %-6s  %-10s  %s\n", "-----", "--------", "------", "----", "-----------")
	for _, s := range stats {
		best := "-"
		if s.Solves > 0 {
			best = fmt.Sprintf("%d/%d", s.BestMoves, s.BestPushes)
		}
		fmt.Fprintf(w, "  %-20s  %-8d  %-6d  %-10s  %s\n",
			s.Level, s.Attempts, s.Solves, best, s.LastPlayed.Format("2006-01-02 15:04"))
	}

	if recent <= 0 {
		return nil
	}
	results, err := store.Results(name, recent)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent runs:")
	for _, r := range results {
		status := "unsolved"
		if r.Solved {
			status = "solved"
		}
		fmt.Fprintf(w, "  %s  %-20s  %4d moves  %3d pushes  %s\n", shortID(r.RunID), r.Level, r.Moves, r.Pushes, status)
	}
	return nil
}

// shortID returns the first block of a run id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
