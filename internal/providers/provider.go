// Package providers implements the LLM provider gateway: a uniform
// completion interface over multiple backends, resolved from a
// "provider:model" identifier.
//
// Backends make exactly one outbound call per Complete invocation. Retries
// belong to the orchestration layer, which needs to build corrective prompts
// between attempts.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// Role constants for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider is the capability interface every LLM backend implements.
type Provider interface {
	// Complete sends one prompt+schema request and returns the decoded
	// response. Backend failures are normalized into *ProviderError.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)

	// Name returns the provider identifier (e.g. "openai", "anthropic").
	Name() string
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one request to an LLM backend.
type CompletionRequest struct {
	Messages []Message `json:"messages"`

	// Model is the backend model name (the part after the colon in
	// "provider:model").
	Model string `json:"model"`

	// Generation parameters.
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// SchemaHint is a JSON Schema document describing the expected output
	// shape. Backends with native structured output pass it as a
	// response_format; others fold it into the prompt.
	SchemaHint json.RawMessage `json:"schema_hint,omitempty"`

	// RequestID correlates the call in logs and call records.
	RequestID string `json:"-"`
}

// CompletionResult is the normalized response from one provider call.
type CompletionResult struct {
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	ExecutionTime time.Duration `json:"execution_time"`
	RequestID     string        `json:"request_id"`

	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// SystemAndUser builds the standard two-message conversation.
func SystemAndUser(system, user string) []Message {
	msgs := make([]Message, 0, 2)
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: user})
	return msgs
}
