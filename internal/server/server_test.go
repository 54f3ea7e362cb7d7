package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/providers"
	"github.com/schemaforge/schemaforge/internal/server/endpoints"
)

func newTestServer(t *testing.T, configYAML string) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cm, err := config.NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	s, err := New(Config{ConfigManager: cm})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

const openConfig = `
defaults:
  model: mock:test-model
  max_attempts: 3
server:
  require_auth: false
`

const authConfig = `
defaults:
  model: mock:test-model
  max_attempts: 3
server:
  require_auth: true
  api_key: secret123
`

const structureBody = `{
	"content": "Alice is a 30 year old engineer",
	"schema_description": {
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		},
		"required": ["name", "age"]
	}
}`

func doRequest(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndStatus(t *testing.T) {
	s := newTestServer(t, openConfig)
	s.Registry().Register("mock", providers.NewMockProvider(`{}`))

	t.Run("health", func(t *testing.T) {
		rec := doRequest(s, "GET", "/health", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("ready with providers", func(t *testing.T) {
		rec := doRequest(s, "GET", "/ready", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("status lists providers", func(t *testing.T) {
		rec := doRequest(s, "GET", "/status", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp endpoints.StatusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Providers) != 1 || resp.Providers[0] != "mock" {
			t.Errorf("providers = %v", resp.Providers)
		}
		if resp.DefaultModel != "mock:test-model" {
			t.Errorf("default model = %q", resp.DefaultModel)
		}
	})
}

func TestStructureEndpoint(t *testing.T) {
	s := newTestServer(t, openConfig)

	t.Run("success", func(t *testing.T) {
		s.Registry().Register("mock", providers.NewMockProvider(`{"name":"Alice","age":30}`))
		rec := doRequest(s, "POST", "/api/v1/structure", structureBody, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var resp endpoints.StructureResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if !resp.Success || resp.Data["name"] != "Alice" {
			t.Errorf("response = %+v", resp)
		}
		if resp.Attempts != 1 {
			t.Errorf("attempts = %d", resp.Attempts)
		}
	})

	t.Run("bad schema is 400 with no provider call", func(t *testing.T) {
		mock := providers.NewMockProvider(`{}`)
		s.Registry().Register("mock", mock)
		body := `{"content":"x","schema_description":{"type":"object","properties":{"a":{"type":"rainbow"}}}}`
		rec := doRequest(s, "POST", "/api/v1/structure", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if mock.Calls() != 0 {
			t.Errorf("provider calls = %d", mock.Calls())
		}
	})

	t.Run("unknown provider is 400", func(t *testing.T) {
		body := `{"content":"x","model_name":"gemini:flash","schema_description":{"type":"object","properties":{"a":{"type":"string"}}}}`
		rec := doRequest(s, "POST", "/api/v1/structure", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("exhaustion is 422", func(t *testing.T) {
		s.Registry().Register("mock", providers.NewMockProvider(`{"name":"Alice"}`))
		rec := doRequest(s, "POST", "/api/v1/structure", structureBody, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var resp endpoints.StructureResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Success || !strings.Contains(resp.Error, "age") {
			t.Errorf("response = %+v", resp)
		}
		if resp.Attempts != 3 {
			t.Errorf("attempts = %d", resp.Attempts)
		}
	})

	t.Run("provider failure is 502", func(t *testing.T) {
		s.Registry().Register("mock", &providers.MockProvider{Err: &providers.ProviderError{
			Provider: "mock", Kind: providers.ErrTransport, Message: "connection refused",
		}})
		rec := doRequest(s, "POST", "/api/v1/structure", structureBody, nil)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("field list schema form", func(t *testing.T) {
		s.Registry().Register("mock", providers.NewMockProvider(`{"title":"Widget"}`))
		body := `{"content":"x","schema_description":[{"name":"title","type":"string","required":true}]}`
		rec := doRequest(s, "POST", "/api/v1/structure", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestGenerateModelEndpoint(t *testing.T) {
	s := newTestServer(t, openConfig)
	s.Registry().Register("mock", providers.NewMockProvider(`{
		"fields": [{"name": "title", "type": "string", "required": true}],
		"rationale": "sample has a title"
	}`))

	body := `{"sample_data":"{\"title\":\"Widget\"}","model_name":"product"}`
	rec := doRequest(s, "POST", "/api/v1/generate-model", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp endpoints.GenerateModelResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success {
		t.Fatalf("response = %+v", resp)
	}
	if !strings.Contains(resp.ModelCode, "type Product struct") {
		t.Errorf("model code:\n%s", resp.ModelCode)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Name != "title" {
		t.Errorf("fields = %+v", resp.Fields)
	}
}

func TestLLMCallsEndpoint(t *testing.T) {
	s := newTestServer(t, openConfig)
	s.Registry().Register("mock", providers.NewMockProvider(`{"name":"Alice","age":30}`))

	doRequest(s, "POST", "/api/v1/structure", structureBody, nil)

	rec := doRequest(s, "GET", "/api/v1/llm-calls", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp endpoints.LLMCallsResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || len(resp.Calls) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Calls[0].Operation != "structure" || !resp.Calls[0].Success {
		t.Errorf("call = %+v", resp.Calls[0])
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, authConfig)
	s.Registry().Register("mock", providers.NewMockProvider(`{"name":"Alice","age":30}`))

	t.Run("missing key is 401", func(t *testing.T) {
		rec := doRequest(s, "POST", "/api/v1/structure", structureBody, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("wrong key is 401", func(t *testing.T) {
		rec := doRequest(s, "POST", "/api/v1/structure", structureBody, map[string]string{
			"Authorization": "Bearer wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("correct key passes", func(t *testing.T) {
		rec := doRequest(s, "POST", "/api/v1/structure", structureBody, map[string]string{
			"Authorization": "Bearer secret123",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		rec := doRequest(s, "GET", "/health", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestAuthWithoutConfiguredKey(t *testing.T) {
	s := newTestServer(t, `
defaults:
  model: mock:test-model
server:
  require_auth: true
  api_key: ""
`)
	rec := doRequest(s, "POST", "/api/v1/structure", structureBody, map[string]string{
		"Authorization": "Bearer anything",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when auth enabled without key", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, openConfig)

	t.Run("preflight", func(t *testing.T) {
		rec := doRequest(s, "OPTIONS", "/api/v1/structure", "", nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("missing CORS header")
		}
	})

	t.Run("simple request carries header", func(t *testing.T) {
		rec := doRequest(s, "GET", "/health", "", nil)
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("missing CORS header")
		}
	})
}
