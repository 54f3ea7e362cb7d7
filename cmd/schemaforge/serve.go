package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SchemaForge server",
	Long: `Start the SchemaForge HTTP server.

Provider API keys are read from the config file (with ${ENV_VAR}
references) and from a .env file in the working directory, if present.
The config file is watched for changes; edits to provider settings take
effect without a restart.

The server provides:
  - /health                 - Basic server health check
  - /ready                  - Readiness check (requires configured providers)
  - /status                 - Configured providers and defaults
  - /api/v1/structure       - Structured extraction
  - /api/v1/generate-model  - Data model inference
  - /api/v1/llm-calls       - Recent LLM call history
  - /swagger                - Interactive API documentation

Examples:
  schemaforge serve                    # Start on default port 8000
  schemaforge serve --port 3000        # Start on custom port
  schemaforge serve --host 127.0.0.1   # Bind to loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Load .env so ${OPENAI_API_KEY} style config references resolve.
		// Missing files are fine; real env vars always win.
		_ = godotenv.Load()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: parseLogLevel(logLevel),
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
