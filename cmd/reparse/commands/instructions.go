package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/reparse/pkg/schema"
)

var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "Print the format instructions for a schema",
	Long: `Render the natural-language format instructions for a schema,
suitable for embedding in a prompt so the model knows what JSON
structure to respond with.

Example:
  reparse instructions -s schema.json`,
	RunE: runInstructions,
}

func init() {
	rootCmd.AddCommand(instructionsCmd)

	instructionsCmd.Flags().StringP("schema", "s", "", "path to schema file (required)")
	_ = instructionsCmd.MarkFlagRequired("schema")
}

func runInstructions(cmd *cobra.Command, args []string) error {
	schemaPath, _ := cmd.Flags().GetString("schema")

	s, err := schema.FromFile(schemaPath)
	if err != nil {
		logError("failed to load schema: %v", err)
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), schema.Instructions(s))
	return nil
}
