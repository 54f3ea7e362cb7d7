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
	OpenRouterName    = "openrouter"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional (tests)
}

// OpenRouterProvider implements Provider using the OpenRouter API, which
// routes one model identifier namespace across many upstream vendors.
type OpenRouterProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenRouterProvider creates a new OpenRouter client.
func NewOpenRouterProvider(cfg OpenRouterConfig) *OpenRouterProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenRouterProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  client,
	}
}

// Name returns the provider identifier.
func (p *OpenRouterProvider) Name() string {
	return OpenRouterName
}

// Complete sends one chat completion request.
func (p *OpenRouterProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	orReq := openRouterRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		orReq.Messages = append(orReq.Messages, openRouterMessage{Role: m.Role, Content: m.Content})
	}
	if len(req.SchemaHint) > 0 {
		wrapper, err := json.Marshal(map[string]any{
			"name":   "structured_output",
			"strict": false,
			"schema": json.RawMessage(req.SchemaHint),
		})
		if err != nil {
			perr := &ProviderError{Provider: OpenRouterName, Kind: ErrTransport, Message: fmt.Sprintf("invalid schema hint: %v", err)}
			return p.failure(requestID, start, perr), perr
		}
		orReq.ResponseFormat = &openRouterResponseFormat{
			Type:       "json_schema",
			JSONSchema: wrapper,
		}
	}

	body, err := json.Marshal(orReq)
	if err != nil {
		perr := &ProviderError{Provider: OpenRouterName, Kind: ErrTransport, Message: fmt.Sprintf("failed to marshal request: %v", err)}
		return p.failure(requestID, start, perr), perr
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		perr := &ProviderError{Provider: OpenRouterName, Kind: ErrTransport, Err: err}
		return p.failure(requestID, start, perr), perr
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("HTTP-Referer", "https://github.com/schemaforge/schemaforge")
	httpReq.Header.Set("X-Title", "SchemaForge")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		perr := &ProviderError{Provider: OpenRouterName, Kind: ErrTransport, Err: err}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			perr.Message = "request cancelled or timed out"
		}
		return p.failure(requestID, start, perr), perr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		perr := &ProviderError{Provider: OpenRouterName, Kind: ErrTransport, Message: fmt.Sprintf("failed to read response: %v", err)}
		return p.failure(requestID, start, perr), perr
	}

	if resp.StatusCode != http.StatusOK {
		perr := &ProviderError{
			Provider: OpenRouterName,
			Kind:     kindFromStatus(resp.StatusCode),
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, string(respBody)),
		}
		return p.failure(requestID, start, perr), perr
	}

	var orResp openRouterResponse
	if err := json.Unmarshal(respBody, &orResp); err != nil {
		perr := &ProviderError{Provider: OpenRouterName, Kind: ErrTransport, Message: fmt.Sprintf("malformed response: %v", err)}
		return p.failure(requestID, start, perr), perr
	}
	// OpenRouter can return 200 with an error object in the body.
	if orResp.Error != nil {
		perr := &ProviderError{Provider: OpenRouterName, Kind: ErrTransport, Message: orResp.Error.Message}
		return p.failure(requestID, start, perr), perr
	}
	if len(orResp.Choices) == 0 {
		perr := &ProviderError{Provider: OpenRouterName, Kind: ErrTransport, Message: "no choices in response"}
		return p.failure(requestID, start, perr), perr
	}

	result := &CompletionResult{
		Content:          orResp.Choices[0].Message.Content,
		PromptTokens:     orResp.Usage.PromptTokens,
		CompletionTokens: orResp.Usage.CompletionTokens,
		TotalTokens:      orResp.Usage.TotalTokens,
		Provider:         OpenRouterName,
		ModelUsed:        orResp.Model,
		ExecutionTime:    time.Since(start),
		RequestID:        requestID,
		Success:          true,
	}

	if parsed, err := ParseStructuredJSON(result.Content); err == nil {
		result.ParsedJSON = parsed
	}

	return result, nil
}

func (p *OpenRouterProvider) failure(requestID string, start time.Time, err error) *CompletionResult {
	return &CompletionResult{
		Provider:      OpenRouterName,
		ExecutionTime: time.Since(start),
		RequestID:     requestID,
		Success:       false,
		ErrorMessage:  err.Error(),
	}
}

// OpenRouter API types

type openRouterRequest struct {
	Model          string                    `json:"model"`
	Messages       []openRouterMessage       `json:"messages"`
	Temperature    float64                   `json:"temperature,omitempty"`
	MaxTokens      int                       `json:"max_tokens,omitempty"`
	ResponseFormat *openRouterResponseFormat `json:"response_format,omitempty"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

type openRouterResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *openRouterError `json:"error,omitempty"`
}

type openRouterError struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}

// Verify interface
var _ Provider = (*OpenRouterProvider)(nil)
