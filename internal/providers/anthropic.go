package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	AnthropicName    = "anthropic"
	AnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	// Anthropic requires max_tokens on every request.
	anthropicDefaultMaxTokens = 4096
)

// AnthropicConfig holds configuration for the Anthropic client.
type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional (tests)
}

// AnthropicProvider implements Provider using the Anthropic Messages API.
// Anthropic has no json_schema response format, so the schema hint is folded
// into the system prompt and the output validated locally by the caller.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAnthropicProvider creates a new Anthropic client.
func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = AnthropicBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &AnthropicProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  client,
	}
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string {
	return AnthropicName
}

// Complete sends one messages request.
func (p *AnthropicProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	aReq := anthropicRequest{
		Model:     req.Model,
		MaxTokens: maxTokens,
	}
	if req.Temperature > 0 {
		aReq.Temperature = req.Temperature
	}

	var system string
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n"
			}
			system += m.Content
			continue
		}
		aReq.Messages = append(aReq.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	if len(req.SchemaHint) > 0 {
		if system != "" {
			system += "\n\n"
		}
		system += "Respond ONLY with a JSON object (no markdown, no commentary) that conforms to this JSON Schema:\n" + string(req.SchemaHint)
	}
	aReq.System = system

	body, err := json.Marshal(aReq)
	if err != nil {
		perr := &ProviderError{Provider: AnthropicName, Kind: ErrTransport, Message: fmt.Sprintf("failed to marshal request: %v", err)}
		return p.failure(requestID, start, perr), perr
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		perr := &ProviderError{Provider: AnthropicName, Kind: ErrTransport, Err: err}
		return p.failure(requestID, start, perr), perr
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		perr := &ProviderError{Provider: AnthropicName, Kind: ErrTransport, Err: err}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			perr.Message = "request cancelled or timed out"
		}
		return p.failure(requestID, start, perr), perr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		perr := &ProviderError{Provider: AnthropicName, Kind: ErrTransport, Message: fmt.Sprintf("failed to read response: %v", err)}
		return p.failure(requestID, start, perr), perr
	}

	if resp.StatusCode != http.StatusOK {
		perr := &ProviderError{
			Provider: AnthropicName,
			Kind:     kindFromStatus(resp.StatusCode),
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, anthropicErrorMessage(respBody)),
		}
		return p.failure(requestID, start, perr), perr
	}

	var aResp anthropicResponse
	if err := json.Unmarshal(respBody, &aResp); err != nil {
		perr := &ProviderError{Provider: AnthropicName, Kind: ErrTransport, Message: fmt.Sprintf("malformed response: %v", err)}
		return p.failure(requestID, start, perr), perr
	}

	var content string
	for _, block := range aResp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	result := &CompletionResult{
		Content:          content,
		PromptTokens:     aResp.Usage.InputTokens,
		CompletionTokens: aResp.Usage.OutputTokens,
		TotalTokens:      aResp.Usage.InputTokens + aResp.Usage.OutputTokens,
		Provider:         AnthropicName,
		ModelUsed:        aResp.Model,
		ExecutionTime:    time.Since(start),
		RequestID:        requestID,
		Success:          true,
	}

	if parsed, err := ParseStructuredJSON(content); err == nil {
		result.ParsedJSON = parsed
	}

	return result, nil
}

func (p *AnthropicProvider) failure(requestID string, start time.Time, err error) *CompletionResult {
	return &CompletionResult{
		Provider:      AnthropicName,
		ExecutionTime: time.Since(start),
		RequestID:     requestID,
		Success:       false,
		ErrorMessage:  err.Error(),
	}
}

func anthropicErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}

// Anthropic API types

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Verify interface
var _ Provider = (*AnthropicProvider)(nil)
