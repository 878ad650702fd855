package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ricochet/internal/match"
	"github.com/vovakirdan/ricochet/internal/registry"
	"github.com/vovakirdan/ricochet/internal/room"
)

var (
	flagSimSeconds float64
	flagSimVerbose bool
	flagSimNoSave  bool
)

var simCmd = &cobra.Command{
	Use:   "sim [layout]",
	Short: "Run a headless bot-vs-bot match",
	Long: `Play a match with bots in every seat as fast as possible and print
the result. The match is cut off after --seconds of game time and stored as
cancelled. Same seed, same layout and same config give the same match.

Examples:
  ricochet sim
  ricochet sim crossfire --seconds 300
  ricochet sim duel --seed 7 --pace siege`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().Float64Var(&flagSimSeconds, "seconds", 600, "Game time limit in seconds")
	simCmd.Flags().BoolVar(&flagSimVerbose, "verbose", false, "Log match events")
	simCmd.Flags().BoolVar(&flagSimNoSave, "no-save", false, "Do not store the result")
}

func runSim(cmd *cobra.Command, args []string) {
	name := "duel"
	if len(args) > 0 {
		name = args[0]
	}
	mustLayout(name)

	cfg, err := matchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ricochet-sim",
		Level:           log.WarnLevel,
	})
	if flagSimVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	l, err := registry.Create(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	m, err := match.New(l, cfg, match.WithSeed(seed), match.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seats := m.Players()
	r := room.New(room.ID(uuid.NewString()), m,
		room.WithTPS(flagTPS),
		room.WithLogger(logger),
		room.WithBots(seed, seats...),
	)

	delta := 1 / float64(max(flagTPS, 1))
	res, over := match.Result{}, false
	for !over && m.Elapsed() < flagSimSeconds {
		res, over = r.Tick(delta)
	}

	reason := "completed"
	if !over {
		reason = "cancelled"
		res = match.Result{Phase: m.Phase(), Elapsed: m.Elapsed()}
	}

	fmt.Printf("Layout:  %s\n", name)
	fmt.Printf("Seed:    %d\n", seed)
	fmt.Printf("Phases:  %d\n", res.Phase)
	fmt.Printf("Elapsed: %.1fs\n", res.Elapsed)
	switch {
	case !over:
		fmt.Println("Result:  time limit reached")
	case res.Draw:
		fmt.Println("Result:  draw")
	default:
		players := make([]string, len(res.Players))
		for i, p := range res.Players {
			players[i] = fmt.Sprintf("P%d", p)
		}
		fmt.Printf("Result:  team %d wins (%s)\n", res.Winner, strings.Join(players, ", "))
	}

	if flagSimNoSave {
		return
	}
	store := openStore()
	if store == nil {
		return
	}
	defer store.Close()
	data := room.NewResultData(r.ID(), name, len(seats), seed, res, reason)
	if err := store.SaveMatchResult(data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save result: %v\n", err)
	}
}
