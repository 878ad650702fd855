package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ricochet/internal/platform/tui"
	"github.com/vovakirdan/ricochet/internal/storage"
)

var (
	flagHistoryLimit       int
	flagHistoryInteractive bool
)

var historyCmd = &cobra.Command{
	Use:   "history [layout]",
	Short: "Show recent match results",
	Long: `Display the most recent stored results, optionally for one layout.

Examples:
  ricochet history
  ricochet history duel --limit 5
  ricochet history --interactive`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of results to show")
	historyCmd.Flags().BoolVarP(&flagHistoryInteractive, "interactive", "i", false, "Browse results in a table")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryInteractive {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if _, err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var results []storage.MatchRecord
	title := "Recent matches"
	if len(args) > 0 {
		mustLayout(args[0])
		title = "Recent matches - " + args[0]
		results, err = store.LayoutResults(args[0], flagHistoryLimit)
	} else {
		results, err = store.RecentResults(flagHistoryLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(title)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ricochet play' or 'ricochet sim' to record one!")
		return
	}

	// Print header
	fmt.Printf("  %-12s  %-10s  %-5s  %-7s  %-7s  %s\n", "Map", "Result", "Seats", "Phases", "Length", "When")
	fmt.Printf("  %-12s  %-10s  %-5s  %-7s  %-7s  %s\n", "---", "------", "-----", "------", "------", "----")

	// Print results
	for _, r := range results {
		fmt.Printf("  %-12s  %-10s  %-5d  %-7d  %-7s  %s\n",
			r.Layout, tui.ResultText(r), r.Seats, r.Phases, fmt.Sprintf("%.0fs", r.Elapsed), humanize.Time(r.CreatedAt))
	}

	if len(args) > 0 {
		stats, err := store.GetLayoutStats(args[0])
		if err == nil && stats.Matches > 0 {
			fmt.Println()
			fmt.Printf("%s matches  %d draws  avg %.0f phases  longest %.0fs\n",
				humanize.Comma(int64(stats.Matches)), stats.Draws, stats.AvgPhases, stats.Longest)
		}
	}
}
