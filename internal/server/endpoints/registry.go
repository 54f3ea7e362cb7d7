package endpoints

import (
	"github.com/schemaforge/schemaforge/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Extraction endpoints
		&StructureEndpoint{},
		&GenerateModelEndpoint{},

		// Observability endpoints
		&ListLLMCallsEndpoint{},

		// API docs
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}
