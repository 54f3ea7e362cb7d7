// Package llmcall provides LLM call recording and querying for traceability.
// Every provider call is recorded with its operation, model, and metrics.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/schemaforge/schemaforge/internal/providers"
)

// Call represents one recorded provider invocation.
type Call struct {
	ID string `json:"id"`

	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Operation is the high-level workflow ("structure", "generate_model").
	Operation string `json:"operation"`

	// RequestID groups attempts belonging to one API request.
	RequestID string `json:"request_id,omitempty"`
	Attempt   int    `json:"attempt"`

	Provider string `json:"provider"`
	Model    string `json:"model"`

	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording a call.
type RecordOptions struct {
	Operation string
	RequestID string
	Attempt   int
}

// FromCompletionResult creates a Call from a provider result.
// Returns nil if result is nil.
func FromCompletionResult(result *providers.CompletionResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		LatencyMs:    int(result.ExecutionTime.Milliseconds()),
		Operation:    opts.Operation,
		RequestID:    opts.RequestID,
		Attempt:      opts.Attempt,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		Success:      result.Success,
	}
	if !result.Success {
		call.Error = result.ErrorMessage
	}
	return call
}
