package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ricochet/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [layout]",
	Short: "Play a local match against bots",
	Long: `Start a match on the given layout. You take the first seat and bots
play the rest. Without a layout the map picker opens.

Controls:
  Arrows/hjkl  - Move the cursor
  1 2 3 4      - Place a reflector (┘ └ ┐ ┌)
  X            - Remove your reflector
  W            - Place a wall
  T            - Use a time stop
  R            - Rematch (after game over)
  Esc/B        - Back to the map picker
  Q/Ctrl+C     - Quit

Examples:
  ricochet play
  ricochet play duel
  ricochet play crossfire --bots easy
  ricochet play duel --config ./my-match.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := matchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if len(args) == 0 {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		opts := tui.SessionOptions{Config: cfg, TickRate: flagTPS, Store: store}
		if err := tui.RunSession(opts, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	mustLayout(args[0])
	opts := tui.GameOptions{
		Layout:   args[0],
		Config:   cfg,
		Seed:     flagSeed,
		TickRate: flagTPS,
	}
	if store != nil {
		opts.Saver = store
	}
	if err := tui.RunGame(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
