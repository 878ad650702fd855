package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ricochet/internal/registry"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List all available layouts",
	Long: `Shows the built-in layouts and those loaded with --maps.

Examples:
  ricochet maps
  ricochet maps --maps ./layouts`,
	Run: runMaps,
}

func runMaps(cmd *cobra.Command, args []string) {
	layouts := registry.List()

	if len(layouts) == 0 {
		fmt.Println("No layouts available.")
		return
	}

	fmt.Println("Available layouts:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range layouts {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	// Print header
	fmt.Printf("  %-*s  %-7s  %-6s  %-8s  %s\n", maxNameLen, "Name", "Players", "Size", "Source", "Title")
	fmt.Printf("  %-*s  %-7s  %-6s  %-8s  %s\n", maxNameLen, "----", "-------", "----", "------", "-----")

	// Print layouts
	for _, l := range layouts {
		fmt.Printf("  %-*s  %-7d  %-6s  %-8s  %s\n", maxNameLen, l.Name, l.Players, l.Size, l.Source, l.Title)
	}

	fmt.Println()
	fmt.Println("Run 'ricochet play <name>' to play a layout.")
}
