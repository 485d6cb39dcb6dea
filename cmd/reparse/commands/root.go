// Package commands implements the CLI commands for reparse.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "reparse",
	Short: "Recover structured data from free-form model output",
	Long: `Reparse recovers schema-conforming JSON from the messy text that
generative models actually produce: explanatory prose, markdown fences,
trailing commas, truncation, or several competing JSON blocks.

Define a schema for the data you expect and feed it raw model output,
and reparse returns a validated value with diagnostics and a confidence
score. It never gives up with an exception: failures come back as a
structured outcome you can inspect.

Examples:
  # Parse a saved model response against a schema
  reparse parse -s schema.json -i response.txt

  # Parse from stdin, strict validation, YAML output
  cat response.txt | reparse parse -s schema.yaml --strict --format yaml

  # Print the format instructions a prompt should embed
  reparse instructions -s schema.json

  # Generate and recover in one step
  reparse recover -s schema.json -p ollama -m llama3.2 "Summarise..." `,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.reparse.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".reparse")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("REPARSE")
	viper.AutomaticEnv()

	// Also check common API key env vars
	_ = viper.BindEnv("api_key", "ANTHROPIC_API_KEY", "OPENAI_API_KEY")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
