package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIProviderComplete(t *testing.T) {
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": "gpt-4o-2024-08-06",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"name":"Alice"}`}},
			},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	result, err := p.Complete(context.Background(), &CompletionRequest{
		Messages:   SystemAndUser("extract data", "Alice is 30"),
		Model:      "gpt-4o",
		SchemaHint: json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}}}`),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if result.Content != `{"name":"Alice"}` {
		t.Errorf("content = %q", result.Content)
	}
	if string(result.ParsedJSON) != `{"name":"Alice"}` {
		t.Errorf("parsed = %s", result.ParsedJSON)
	}
	if result.TotalTokens != 20 {
		t.Errorf("total tokens = %d", result.TotalTokens)
	}
	if result.ModelUsed != "gpt-4o-2024-08-06" {
		t.Errorf("model used = %q", result.ModelUsed)
	}

	rf, ok := gotReq["response_format"].(map[string]any)
	if !ok {
		t.Fatal("request missing response_format")
	}
	if rf["type"] != "json_schema" {
		t.Errorf("response_format type = %v", rf["type"])
	}
}

func TestOpenAIProviderAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-bad", BaseURL: srv.URL})
	result, err := p.Complete(context.Background(), &CompletionRequest{
		Messages: SystemAndUser("", "hi"),
		Model:    "gpt-4o",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if pe.Kind != ErrAuth {
		t.Errorf("kind = %s, want %s", pe.Kind, ErrAuth)
	}
	if result == nil || result.Success {
		t.Error("failure result expected")
	}
}

func TestAnthropicProviderComplete(t *testing.T) {
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "sk-ant-test" {
			t.Errorf("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "msg_1",
			"model": "claude-sonnet-4-5",
			"content": []map[string]any{
				{"type": "text", "text": "```json\n{\"name\":\"Bob\"}\n```"},
			},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 15, "output_tokens": 9},
		})
	}))
	defer srv.Close()

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-ant-test", BaseURL: srv.URL})
	result, err := p.Complete(context.Background(), &CompletionRequest{
		Messages:   SystemAndUser("extract data", "Bob works here"),
		Model:      "claude-sonnet-4-5",
		SchemaHint: json.RawMessage(`{"type":"object"}`),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if string(result.ParsedJSON) != `{"name":"Bob"}` {
		t.Errorf("parsed = %s", result.ParsedJSON)
	}
	if result.TotalTokens != 24 {
		t.Errorf("total tokens = %d", result.TotalTokens)
	}
	// Schema hint must be folded into the system prompt.
	if !strings.Contains(gotReq.System, "JSON Schema") || !strings.Contains(gotReq.System, `"type":"object"`) {
		t.Errorf("system prompt missing schema hint: %q", gotReq.System)
	}
	if gotReq.MaxTokens != anthropicDefaultMaxTokens {
		t.Errorf("max_tokens = %d", gotReq.MaxTokens)
	}
}

func TestAnthropicProviderRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Complete(context.Background(), &CompletionRequest{
		Messages: SystemAndUser("", "hi"),
		Model:    "claude-sonnet-4-5",
	})
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Kind != ErrRateLimit {
		t.Errorf("kind = %s", pe.Kind)
	}
	if !strings.Contains(pe.Message, "slow down") {
		t.Errorf("message should carry upstream detail: %q", pe.Message)
	}
}

func TestOpenRouterProviderComplete(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer or-key" {
			t.Errorf("missing Authorization header")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "gen-1",
			"model": "meta-llama/llama-3.3-70b-instruct",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"done":true}`}, "finish_reason": "stop"},
			},
			"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8},
		})
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(OpenRouterConfig{APIKey: "or-key", BaseURL: srv.URL})
	result, err := p.Complete(context.Background(), &CompletionRequest{
		Messages: SystemAndUser("sys", "user"),
		Model:    "meta-llama/llama-3.3-70b-instruct",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if string(result.ParsedJSON) != `{"done":true}` {
		t.Errorf("parsed = %s", result.ParsedJSON)
	}
	if calls != 1 {
		t.Errorf("expected exactly one upstream call, got %d", calls)
	}
}

func TestOpenRouterProviderBodyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded", "code": "overloaded"},
		})
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := p.Complete(context.Background(), &CompletionRequest{
		Messages: SystemAndUser("", "hi"),
		Model:    "some/model",
	})
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Kind != ErrTransport {
		t.Errorf("kind = %s", pe.Kind)
	}
}

func TestMockProviderScript(t *testing.T) {
	m := &MockProvider{Responses: []string{`{"a":1}`, `{"a":2}`}}
	ctx := context.Background()
	req := &CompletionRequest{Messages: SystemAndUser("s", "u"), Model: "m"}

	r1, _ := m.Complete(ctx, req)
	r2, _ := m.Complete(ctx, req)
	r3, _ := m.Complete(ctx, req)

	if r1.Content != `{"a":1}` || r2.Content != `{"a":2}` {
		t.Errorf("scripted responses out of order: %q, %q", r1.Content, r2.Content)
	}
	if r3.Content != `{"a":2}` {
		t.Errorf("last response should repeat, got %q", r3.Content)
	}
	if m.Calls() != 3 {
		t.Errorf("calls = %d", m.Calls())
	}
	if len(m.Requests()) != 3 {
		t.Errorf("requests recorded = %d", len(m.Requests()))
	}
}
