package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/reparse/internal/logger"
	"github.com/jmylchreest/reparse/pkg/reparse"
	"github.com/jmylchreest/reparse/pkg/schema"
)

// recoveredResult wraps the recovered value with generation metadata.
type recoveredResult struct {
	Metadata recoveryMetadata `json:"_metadata"`
	Outcome  any              `json:"outcome"`
}

type recoveryMetadata struct {
	Model        string `json:"model"`
	Provider     string `json:"provider"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	Attempts     int    `json:"attempts"`
	DurationMs   int64  `json:"duration_ms"`
}

var recoverCmd = &cobra.Command{
	Use:   "recover [task prompt]",
	Short: "Generate a response and recover structured data from it",
	Long: `Run a generation provider with the schema's format instructions
prepended to the task prompt, then recover a schema-conforming value
from the response. Failed or low-confidence recoveries trigger a fresh
generation with the errors fed back, up to --generation-retries times.

Examples:
  reparse recover -s schema.json "List the three largest moons of Jupiter"

  reparse recover -s schema.yaml -p openai -m gpt-4o-mini \
      --strict "Extract the invoice fields from: ..."

  reparse recover -s schema.json -p ollama -m llama3.2 \
      --native-schema "Summarise the incident report: ..."`,
	Args: cobra.ExactArgs(1),
	RunE: runRecover,
}

func init() {
	rootCmd.AddCommand(recoverCmd)

	flags := recoverCmd.Flags()

	flags.StringP("schema", "s", "", "path to schema file (required)")

	// Provider settings
	flags.StringP("provider", "p", "", "provider: anthropic, openai, ollama")
	flags.StringP("model", "m", "", "model name (provider-specific)")
	flags.StringP("api-key", "k", "", "API key (or use env var)")
	flags.String("base-url", "", "custom API base URL")

	// Generation settings
	flags.Float64("temperature", 0.1, "sampling temperature")
	flags.Int("max-tokens", 4096, "max output tokens per generation")
	flags.Int("generation-retries", 2, "fresh generations after a failed recovery")
	flags.Bool("native-schema", false, "pass the JSON schema to providers that enforce it")

	// Recovery settings
	flags.Bool("strict", false, "require full schema conformance")
	flags.Int("max-retries", 2, "max repair transforms per parse")
	flags.Float64("min-confidence", 0, "regenerate while confidence is below this")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml")
	flags.Bool("include-metadata", true, "wrap output with _metadata and outcome keys")

	_ = recoverCmd.MarkFlagRequired("schema")
}

func runRecover(cmd *cobra.Command, args []string) error {
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

	apiKey, _ := flags.GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}

	provider, _ := flags.GetString("provider")
	model, _ := flags.GetString("model")
	baseURL, _ := flags.GetString("base-url")
	temperature, _ := flags.GetFloat64("temperature")
	maxTokens, _ := flags.GetInt("max-tokens")
	generationRetries, _ := flags.GetInt("generation-retries")
	nativeSchema, _ := flags.GetBool("native-schema")
	strict, _ := flags.GetBool("strict")
	maxRetries, _ := flags.GetInt("max-retries")
	minConfidence, _ := flags.GetFloat64("min-confidence")

	engine, err := reparse.New(
		reparse.WithProvider(provider),
		reparse.WithModel(model),
		reparse.WithAPIKey(apiKey),
		reparse.WithBaseURL(baseURL),
		reparse.WithTemperature(temperature),
		reparse.WithMaxTokens(maxTokens),
		reparse.WithGenerationRetries(generationRetries),
		reparse.WithNativeSchema(nativeSchema),
		reparse.WithStrict(strict),
		reparse.WithMaxRetries(maxRetries),
		reparse.WithMinConfidence(minConfidence),
	)
	if err != nil {
		logError("%v", err)
		return err
	}

	// Cancel cleanly on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	task := strings.TrimSpace(args[0])
	logInfo("recovering %s via %s...", s.Name, engine.Provider())

	result, err := engine.Recover(ctx, task, s)
	if err != nil {
		logError("%v", err)
		return err
	}

	var out any = result.Outcome
	if include, _ := flags.GetBool("include-metadata"); include {
		out = recoveredResult{
			Metadata: recoveryMetadata{
				Model:        result.Model,
				Provider:     result.Provider,
				InputTokens:  result.Usage.InputTokens,
				OutputTokens: result.Usage.OutputTokens,
				Attempts:     result.Attempts,
				DurationMs:   result.Duration.Milliseconds(),
			},
			Outcome: result.Outcome,
		}
	}

	if err := writeOutcome(cmd, out); err != nil {
		return err
	}

	if !result.Outcome.Success {
		logInfo("no structure recovered after %d generation(s); consider manual review", result.Attempts)
		return fmt.Errorf("recovery failed")
	}

	return nil
}
