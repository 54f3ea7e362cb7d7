package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-12345")
	t.Setenv("TEST_REGION", "us-east")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "${TEST_API_KEY}", "sk-12345"},
		{"embedded", "key-${TEST_API_KEY}-suffix", "key-sk-12345-suffix"},
		{"multiple", "${TEST_API_KEY}:${TEST_REGION}", "sk-12345:us-east"},
		{"unset resolves empty", "${UNSET_VAR_XYZ}", ""},
		{"no reference", "plain-value", "plain-value"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEnvVars(tt.input); got != tt.want {
				t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.Model != "openai:gpt-4o" {
		t.Errorf("default model = %q", cfg.Defaults.Model)
	}
	if cfg.Defaults.MaxAttempts != 3 {
		t.Errorf("default max attempts = %d", cfg.Defaults.MaxAttempts)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Server.RequireAuth {
		t.Error("auth should be off by default")
	}

	for _, name := range []string{"openai", "anthropic", "openrouter", "groq"} {
		p, ok := cfg.Providers[name]
		if !ok {
			t.Errorf("missing default provider %q", name)
			continue
		}
		if !strings.HasPrefix(p.APIKey, "${") {
			t.Errorf("provider %q api key should reference an env var: %q", name, p.APIKey)
		}
	}
}

func TestToRegistryConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-live")

	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o",
				APIKey:         "${OPENAI_API_KEY}",
				TimeoutSeconds: 60,
				Enabled:        true,
			},
			"anthropic": {
				Type:    "anthropic",
				APIKey:  "${MISSING_ANTHROPIC_KEY}",
				Enabled: true,
			},
		},
	}

	reg := cfg.ToRegistryConfig()

	oa := reg.Providers["openai"]
	if oa.APIKey != "sk-live" {
		t.Errorf("api key not resolved: %q", oa.APIKey)
	}
	if oa.Timeout != 60*time.Second {
		t.Errorf("timeout = %v", oa.Timeout)
	}
	if reg.Providers["anthropic"].APIKey != "" {
		t.Errorf("unset env var should resolve empty, got %q", reg.Providers["anthropic"].APIKey)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := string(data)
	for _, want := range []string{"providers:", "openai", "${OPENAI_API_KEY}", "defaults:", "server:", "require_auth: false"} {
		if !strings.Contains(content, want) {
			t.Errorf("written config missing %q", want)
		}
	}
}
