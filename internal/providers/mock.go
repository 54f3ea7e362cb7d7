package providers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const MockName = "mock"

// MockProvider is a Provider for testing. It plays back scripted responses
// in order (the last one repeating) and records every request it receives so
// tests can assert on prompts and attempt counts.
type MockProvider struct {
	// Responses are returned in order; the last repeats once exhausted.
	Responses []string

	// Err, if set, is returned from every Complete call.
	Err error

	// ErrAfter fails requests after N successes (0 = never).
	ErrAfter int

	Latency time.Duration

	mu       sync.Mutex
	requests []*CompletionRequest
	calls    int
}

// NewMockProvider creates a mock that always returns response.
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Responses: []string{response}}
}

// Name returns the client identifier.
func (m *MockProvider) Name() string {
	return MockName
}

// Complete returns the next scripted response.
func (m *MockProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Latency):
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reqCopy := *req
	reqCopy.Messages = append([]Message(nil), req.Messages...)
	m.requests = append(m.requests, &reqCopy)
	m.calls++

	if m.Err != nil && (m.ErrAfter == 0 || m.calls > m.ErrAfter) {
		return nil, m.Err
	}

	content := "mock response"
	if len(m.Responses) > 0 {
		idx := m.calls - 1
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		content = m.Responses[idx]
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	result := &CompletionResult{
		Content:          content,
		PromptTokens:     10,
		CompletionTokens: 20,
		TotalTokens:      30,
		Provider:         MockName,
		ModelUsed:        req.Model,
		RequestID:        requestID,
		Success:          true,
	}
	if parsed, err := ParseStructuredJSON(content); err == nil {
		result.ParsedJSON = parsed
	}
	return result, nil
}

// Calls returns how many times Complete was invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns copies of all requests received so far.
func (m *MockProvider) Requests() []*CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*CompletionRequest(nil), m.requests...)
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Verify interface
var _ Provider = (*MockProvider)(nil)
