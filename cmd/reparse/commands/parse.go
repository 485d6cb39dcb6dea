package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/reparse/internal/logger"
	"github.com/jmylchreest/reparse/internal/output"
	"github.com/jmylchreest/reparse/pkg/parser"
	"github.com/jmylchreest/reparse/pkg/schema"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Recover structured data from saved model output",
	Long: `Parse raw model output against a schema and print the outcome.

The schema file defines the fields to recover. It can be JSON or YAML
and should include field names, types, and descriptions. Input comes
from a file or stdin.

Exit status is 0 when a value was recovered (check the confidence field
for partial recoveries) and 1 when no structure could be recovered.

Examples:
  reparse parse -s schema.json -i response.txt
  cat response.txt | reparse parse -s schema.yaml --strict
  reparse parse -s schema.json -i response.txt --min-confidence 0.8`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	flags := parseCmd.Flags()

	flags.StringP("schema", "s", "", "path to schema file (required)")
	flags.StringP("input", "i", "", "input file (default: stdin)")

	// Recovery settings
	flags.Bool("strict", false, "require full schema conformance (no partial coercion)")
	flags.Int("max-retries", parser.DefaultMaxRetries, "max repair transforms to apply")
	flags.Float64("min-confidence", 0, "warn when the recovered confidence is below this")
	flags.String("max-input-size", "1MB", "max input size (e.g. 256KB, 1MB, 0=unlimited)")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml")

	_ = parseCmd.MarkFlagRequired("schema")
}

func runParse(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	flags := cmd.Flags()

	schemaPath, _ := flags.GetString("schema")
	s, err := schema.FromFile(schemaPath)
	if err != nil {
		logError("failed to load schema: %v", err)
		return err
	}

	raw, err := readInput(cmd)
	if err != nil {
		logError("failed to read input: %v", err)
		return err
	}

	strict, _ := flags.GetBool("strict")
	maxRetries, _ := flags.GetInt("max-retries")
	minConfidence, _ := flags.GetFloat64("min-confidence")

	outcome := parser.ParseWithRetry(raw, s, strict, maxRetries)

	if err := writeOutcome(cmd, outcome); err != nil {
		return err
	}

	if !outcome.Success {
		logInfo("no structure recovered from input; consider manual review")
		return fmt.Errorf("recovery failed")
	}
	if minConfidence > 0 && outcome.Confidence < minConfidence {
		logInfo("recovered with confidence %.2f (below %.2f); flag for review",
			outcome.Confidence, minConfidence)
	}

	return nil
}

// readInput reads raw text from the input file or stdin, enforcing the
// configured size cap.
func readInput(cmd *cobra.Command) (string, error) {
	flags := cmd.Flags()

	var reader io.Reader = os.Stdin
	if path, _ := flags.GetString("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		reader = f
	}

	maxSize := uint64(0)
	if sizeStr, _ := flags.GetString("max-input-size"); sizeStr != "" && sizeStr != "0" {
		var err error
		maxSize, err = humanize.ParseBytes(sizeStr)
		if err != nil {
			return "", fmt.Errorf("invalid max-input-size %q: %w", sizeStr, err)
		}
	}
	if maxSize > 0 {
		reader = io.LimitReader(reader, int64(maxSize))
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeOutcome emits a value through the configured output writer.
func writeOutcome(cmd *cobra.Command, value any) error {
	flags := cmd.Flags()

	var w io.Writer = os.Stdout
	if path, _ := flags.GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			logError("failed to create output file: %v", err)
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	name, _ := flags.GetString("format")
	format, err := output.ParseFormat(name)
	if err != nil {
		logError("%v", err)
		return err
	}

	writer, err := output.NewWriter(w, format)
	if err != nil {
		logError("%v", err)
		return err
	}

	if err := writer.Write(value); err != nil {
		return err
	}
	return writer.Close()
}
