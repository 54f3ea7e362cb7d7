package main

import (
	"os"

	"github.com/schemaforge/schemaforge/internal/api"
	"github.com/schemaforge/schemaforge/internal/server/endpoints"
)

var (
	serverURL string
	apiKey    string
)

// getClient builds the API client at runtime, after flag parsing.
func getClient() *api.Client {
	key := apiKey
	if key == "" {
		key = os.Getenv("SCHEMAFORGE_API_KEY")
	}
	return api.NewClient(serverURL, key)
}

func init() {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All() {
		registry.Register(ep)
	}

	apiCmd := registry.BuildCommands(getClient)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)
	apiCmd.PersistentFlags().StringVar(
		&apiKey, "api-key", "", "API key for protected endpoints (default: $SCHEMAFORGE_API_KEY)",
	)

	rootCmd.AddCommand(apiCmd)
}
