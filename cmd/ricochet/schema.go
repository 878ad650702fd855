package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ricochet/internal/layout"
)

var flagSchemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the layout file JSON Schema",
	Long: `Generate a JSON Schema for layout files, for editor completion and
validation of custom maps.

Examples:
  ricochet schema
  ricochet schema --out ./layouts/layout.schema.json`,
	Run: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&flagSchemaOut, "out", "", "Write the schema to a file instead of stdout")
}

func runSchema(cmd *cobra.Command, args []string) {
	data, err := json.MarshalIndent(buildSchema(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: marshal schema: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if flagSchemaOut == "" {
		os.Stdout.Write(data) //nolint:errcheck // stdout
		return
	}
	if err := writeSchema(flagSchemaOut, data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(layout.File))
	schema.Title = "Ricochet Layout"
	schema.Description = "Validates map files loaded with --maps"
	return schema
}

func writeSchema(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
