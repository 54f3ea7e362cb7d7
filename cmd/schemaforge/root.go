package main

import (
	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/api"
	"github.com/schemaforge/schemaforge/version"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "schemaforge",
	Short: "LLM-powered structured extraction and data model inference",
	Long: `SchemaForge turns unstructured text into validated structured data
using LLM providers, with schema-aware validation and corrective retries.

It provides:
  - Structured extraction validated against a caller-supplied schema
  - Data model inference from sample data, with generated Go types
  - Multi-provider LLM access (OpenAI, Anthropic, OpenRouter, Groq)
  - LLM call history with token usage and latency`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.schemaforge/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
