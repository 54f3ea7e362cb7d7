// Package config handles loading, defaulting, and hot-reloading of service
// configuration.
package config

import (
	"time"

	"github.com/schemaforge/schemaforge/internal/providers"
)

// ProviderConfig configures one LLM backend.
type ProviderConfig struct {
	Type           string `mapstructure:"type" yaml:"type"`
	Model          string `mapstructure:"model" yaml:"model"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsConfig holds extraction defaults.
type DefaultsConfig struct {
	// Model is a "provider:model" identifier.
	Model       string  `mapstructure:"model" yaml:"model"`
	MaxAttempts int     `mapstructure:"max_attempts" yaml:"max_attempts"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`

	// APIKey protects /api/v1 endpoints when RequireAuth is set.
	APIKey      string `mapstructure:"api_key" yaml:"api_key"`
	RequireAuth bool   `mapstructure:"require_auth" yaml:"require_auth"`
}

// Config is the full service configuration.
type Config struct {
	Providers map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsConfig            `mapstructure:"defaults" yaml:"defaults"`
	Server    ServerConfig              `mapstructure:"server" yaml:"server"`
}

// DefaultConfig returns the built-in configuration. API keys reference
// environment variables and are resolved at registry build time.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderConfig{
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o",
				APIKey:         "${OPENAI_API_KEY}",
				BaseURL:        "${OPENAI_BASE_URL}",
				TimeoutSeconds: 120,
				Enabled:        true,
			},
			"anthropic": {
				Type:           "anthropic",
				Model:          "claude-sonnet-4-5",
				APIKey:         "${ANTHROPIC_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        true,
			},
			"openrouter": {
				Type:           "openrouter",
				Model:          "anthropic/claude-3.5-sonnet",
				APIKey:         "${OPENROUTER_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        true,
			},
			"groq": {
				Type:           "groq",
				Model:          "llama-3.3-70b-versatile",
				APIKey:         "${GROQ_API_KEY}",
				TimeoutSeconds: 120,
				Enabled:        true,
			},
		},
		Defaults: DefaultsConfig{
			Model:       "openai:gpt-4o",
			MaxAttempts: 3,
			Temperature: 0,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			APIKey:      "${SCHEMAFORGE_API_KEY}",
			RequireAuth: false,
		},
	}
}

// ToRegistryConfig converts the config for providers.NewRegistryFromConfig,
// resolving ${ENV_VAR} references in API keys and base URLs.
func (c *Config) ToRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		Providers: make(map[string]providers.ProviderConfig, len(c.Providers)),
	}
	for name, p := range c.Providers {
		cfg.Providers[name] = providers.ProviderConfig{
			Type:    p.Type,
			Model:   p.Model,
			APIKey:  ResolveEnvVars(p.APIKey),
			BaseURL: ResolveEnvVars(p.BaseURL),
			Timeout: time.Duration(p.TimeoutSeconds) * time.Second,
			Enabled: p.Enabled,
		}
	}
	return cfg
}
