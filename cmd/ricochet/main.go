// ricochet is a reflector-placement strategy game for the terminal.
//
// Usage:
//
//	ricochet play [layout]    - Play a local match against bots
//	ricochet sim [layout]     - Run a headless bot-vs-bot match
//	ricochet serve            - Start the SSH and websocket servers
//	ricochet maps             - List available layouts
//	ricochet history          - Show recent match results
//	ricochet schema           - Print the layout file JSON Schema
//
// Global flags:
//
//	--config <path>  - Match config YAML
//	--pace <name>    - Pace preset: blitz, standard, siege
//	--bots <name>    - Bot difficulty: easy, normal, hard
//	--tps <rate>     - Simulation ticks per second (default: 30)
//	--seed <value>   - Set RNG seed for reproducible matches
//	--db <path>      - Set database path (default: ~/.ricochet/results.db)
//	--maps <dir>     - Extra layout directory
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ricochet/internal/config"
	"github.com/vovakirdan/ricochet/internal/registry"
	"github.com/vovakirdan/ricochet/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagPace    string
	flagBots    string
	flagTPS     int
	flagSeed    int64
	flagDBPath  string
	flagMapsDir string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ricochet",
	Short: "Ricochet - Bounce balls through your reflectors into enemy cores",
	Long: `Ricochet is a terminal strategy game. Towers launch balls every phase;
players place diagonal reflectors to steer them into enemy cores while
guarding their own.

Available commands:
  play     - Play a local match against bots
  sim      - Run a headless bot-vs-bot match
  serve    - Start the SSH and websocket servers
  maps     - List available layouts
  history  - Show recent match results
  schema   - Print the layout file JSON Schema

Examples:
  ricochet play duel
  ricochet play crossfire --pace blitz --bots hard
  ricochet sim duel --seconds 120 --seed 7
  ricochet serve --ssh :23235 --http :8080
  ricochet maps --maps ./layouts`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return registerMaps()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPace, "pace", "", "Pace preset: blitz, standard, siege")
	rootCmd.PersistentFlags().StringVar(&flagBots, "bots", "", "Bot difficulty: easy, normal, hard")
	rootCmd.PersistentFlags().IntVar(&flagTPS, "tps", 30, "Simulation ticks per second")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ricochet/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagMapsDir, "maps", "", "Directory of extra layout files")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(schemaCmd)
}

// matchConfig loads the config file and applies the preset flags on top.
func matchConfig() (config.MatchConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.MatchConfig{}, err
	}

	pace, err := config.ParsePace(flagPace)
	if err != nil {
		return config.MatchConfig{}, err
	}
	config.ApplyPacePreset(&cfg, pace)

	bots, err := config.ParseBot(flagBots)
	if err != nil {
		return config.MatchConfig{}, err
	}
	config.ApplyBotPreset(&cfg, bots)

	return cfg, cfg.Validate()
}

// registerMaps adds the layouts of --maps to the registry. Broken files are
// reported and skipped.
func registerMaps() error {
	if flagMapsDir == "" {
		return nil
	}
	_, skipped, err := registry.RegisterDir(flagMapsDir)
	if err != nil {
		return fmt.Errorf("cannot load maps: %w", err)
	}
	for path, skipErr := range skipped {
		fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, skipErr)
	}
	return nil
}

// openStore opens the results database, or returns nil with a warning so
// play works without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		return nil
	}
	return store
}

// mustLayout exits when name is not registered.
func mustLayout(name string) {
	if !registry.Exists(name) {
		fmt.Fprintf(os.Stderr, "Error: unknown layout %q\n", name)
		fmt.Fprintln(os.Stderr, "Run 'ricochet maps' to see available layouts.")
		os.Exit(1)
	}
}
