package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName = "openai"

	// GroqBaseURL is the OpenAI-compatible endpoint for Groq. The "groq"
	// provider type reuses this client with a different base URL.
	GroqBaseURL = "https://api.groq.com/openai/v1"
)

// OpenAIConfig holds configuration for the OpenAI-compatible client.
type OpenAIConfig struct {
	Name       string // provider prefix name (default: "openai")
	APIKey     string
	BaseURL    string // optional override (Groq, proxies, tests)
	Timeout    time.Duration
	HTTPClient *http.Client // optional (tests)
}

// OpenAIProvider implements Provider using the official OpenAI SDK.
// It also serves any OpenAI-compatible backend via BaseURL.
type OpenAIProvider struct {
	name   string
	client openai.Client
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Name == "" {
		cfg.Name = OpenAIName
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// Single attempt: retries are the orchestrator's job so corrective
		// prompts can be built between attempts.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIProvider{
		name:   cfg.Name,
		client: openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Complete sends one chat completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	if len(req.SchemaHint) > 0 {
		var schemaDoc any
		if err := json.Unmarshal(req.SchemaHint, &schemaDoc); err != nil {
			return p.failure(requestID, start, err), &ProviderError{
				Provider: p.name, Kind: ErrTransport,
				Message: fmt.Sprintf("invalid schema hint: %v", err),
			}
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "structured_output",
					Schema: schemaDoc,
					Strict: openai.Bool(false),
				},
			},
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		perr := p.mapError(err)
		return p.failure(requestID, start, perr), perr
	}
	if len(resp.Choices) == 0 {
		perr := &ProviderError{Provider: p.name, Kind: ErrTransport, Message: "no choices in response"}
		return p.failure(requestID, start, perr), perr
	}

	result := &CompletionResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
		Provider:         p.name,
		ModelUsed:        resp.Model,
		ExecutionTime:    time.Since(start),
		RequestID:        requestID,
		Success:          true,
	}

	if parsed, err := ParseStructuredJSON(result.Content); err == nil {
		result.ParsedJSON = parsed
	}

	return result, nil
}

func (p *OpenAIProvider) failure(requestID string, start time.Time, err error) *CompletionResult {
	return &CompletionResult{
		Provider:      p.name,
		ExecutionTime: time.Since(start),
		RequestID:     requestID,
		Success:       false,
		ErrorMessage:  err.Error(),
	}
}

func (p *OpenAIProvider) mapError(err error) *ProviderError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider: p.name,
			Kind:     kindFromStatus(apiErr.StatusCode),
			Message:  fmt.Sprintf("status %d: %s", apiErr.StatusCode, apiErr.Message),
			Err:      err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ProviderError{Provider: p.name, Kind: ErrTransport, Message: "request cancelled or timed out", Err: err}
	}
	return &ProviderError{Provider: p.name, Kind: ErrTransport, Err: err}
}

// Verify interface
var _ Provider = (*OpenAIProvider)(nil)
