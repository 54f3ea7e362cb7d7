package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint defines both an HTTP route and its corresponding CLI command.
// This provides a single source of truth for API operations.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// Protected returns true if this endpoint sits behind API-key auth.
	Protected() bool

	// Command returns a Cobra command that calls this endpoint via HTTP.
	// getClient is called at runtime to build the client (deferred evaluation).
	Command(getClient func() *Client) *cobra.Command
}
